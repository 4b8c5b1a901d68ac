// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package session

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// lineReader reads input on its own goroutine so a prompt can be abandoned
// when the context is cancelled.
type lineReader struct {
	lines chan string
}

func newLineReader(in io.Reader) *lineReader {
	lr := &lineReader{lines: make(chan string)}
	go func() {
		defer close(lr.lines)
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				lr.lines <- strings.TrimRight(line, "\r\n")
			}
			if err != nil {
				return
			}
		}
	}()
	return lr
}

// next blocks until a line is available, the input ends (io.EOF) or ctx is done.
func (lr *lineReader) next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-lr.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}
