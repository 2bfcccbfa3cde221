// util/json.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// UnmarshalJSON decodes contents into obj, rejecting fields that obj
// doesn't have. Syntax errors are reported with the line and column where
// they occurred rather than a byte offset.
func UnmarshalJSON(contents []byte, obj any) error {
	d := json.NewDecoder(bytes.NewReader(contents))
	d.DisallowUnknownFields()

	err := d.Decode(obj)
	var se *json.SyntaxError
	if errors.As(err, &se) {
		line, col := lineAndColumn(contents, se.Offset)
		return fmt.Errorf("line %d, column %d: %w", line, col, err)
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		line, col := lineAndColumn(contents, te.Offset)
		return fmt.Errorf("line %d, column %d: %w", line, col, err)
	}
	return err
}

func lineAndColumn(contents []byte, offset int64) (int, int) {
	offset = min(offset, int64(len(contents)))
	before := contents[:offset]
	line := 1 + bytes.Count(before, []byte{'\n'})
	col := int(offset) - bytes.LastIndexByte(before, '\n')
	return line, col
}
