package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"

	apperr "github.com/matzehuels/tmrview/pkg/errors"
	"github.com/matzehuels/tmrview/pkg/tmr"
)

// wrapper is the {"TMRList": [...]} batch shape.
type wrapper struct {
	TMRList json.RawMessage `json:"TMRList"`
}

// ReadBatch decodes a batch from r. See the package documentation for the
// accepted shapes. ReadBatch does not close r.
func ReadBatch(r io.Reader) ([]tmr.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read batch")
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "batch is empty")
	}

	var results []tmr.Result
	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode batch")
		}
		for i, item := range items {
			rs, err := decodeItem(item)
			if err != nil {
				return nil, apperr.Wrap(apperr.GetCode(err), err, "batch item %d", i)
			}
			results = append(results, rs...)
		}
	case '{':
		results, err = decodeItem(data)
		if err != nil {
			return nil, err
		}
	default:
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "batch must be a JSON list or object")
	}

	for i, r := range results {
		if err := apperr.ValidateSentence(r.Sentence); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "result %d (sent-num %q)", i, r.SentenceID)
		}
	}
	if results == nil {
		results = []tmr.Result{}
	}
	return results, nil
}

// decodeItem decodes one batch element: a wrapper or a single result.
func decodeItem(data json.RawMessage) ([]tmr.Result, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "expected a result object")
	}

	var w wrapper
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode result")
	}
	if w.TMRList != nil && !bytes.Equal(bytes.TrimSpace(w.TMRList), []byte("null")) {
		var rs []tmr.Result
		if err := json.Unmarshal(w.TMRList, &rs); err != nil {
			return nil, decodeError(err, "decode TMRList")
		}
		return rs, nil
	}

	var r tmr.Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, decodeError(err, "decode result")
	}
	return []tmr.Result{r}, nil
}

// decodeError maps a graph payload error to INVALID_GRAPH and anything
// else to INVALID_INPUT.
func decodeError(err error, msg string) error {
	if errors.Is(err, tmr.ErrNotObject) {
		return apperr.Wrap(apperr.ErrCodeInvalidGraph, err, "%s", msg)
	}
	return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "%s", msg)
}

// ImportBatch reads a batch file at path.
//
// ImportBatch opens the file, decodes it using [ReadBatch], and closes the
// file. A missing file yields FILE_NOT_FOUND.
func ImportBatch(path string) ([]tmr.Result, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBatch(f)
}

// ReadOutputs decodes formatted interpretations written by [WriteOutputs].
func ReadOutputs(r io.Reader) ([]tmr.Output, error) {
	var outputs []tmr.Output
	if err := json.NewDecoder(r).Decode(&outputs); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode outputs")
	}
	return outputs, nil
}

// ImportOutputs reads formatted interpretations from the file at path.
func ImportOutputs(path string) ([]tmr.Output, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadOutputs(f)
}

func open(path string) (*os.File, error) {
	if err := apperr.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "open %s", path)
	}
	return f, nil
}
