package engine

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/juju/errors"
)

// maxLine bounds a single JSON line of engine output.
const maxLine = 4 << 20

// DecodeLines decodes one JSON value per line, keeping the order of the
// input. Blank lines are ignored. The first malformed line aborts decoding.
func DecodeLines[T any](r io.Reader) ([]T, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	var out []T
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(line, &v); err != nil {
			return nil, newError(DecodeError, nil, errors.Annotatef(err, "line %d", lineNo))
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, newError(DecodeError, nil, errors.Annotate(err, "read output"))
	}
	return out, nil
}

// DecodeArray decodes the whole payload as a single JSON array. Anything
// but whitespace after the array is an error.
func DecodeArray[T any](r io.Reader) ([]T, error) {
	var out []T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		if err == io.EOF {
			err = errors.New("empty output")
		}
		return nil, newError(DecodeError, nil, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, newError(DecodeError, nil, errors.New("trailing data after array"))
	}
	return out, nil
}
