package asm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteImage writes a memory image in the conventional comma-separated
// intcode text form, terminated by a newline.
func WriteImage(w io.Writer, image []int64) error {
	bw := bufio.NewWriter(w)
	for i, v := range image {
		if i > 0 {
			bw.WriteByte(',')
		}
		bw.WriteString(strconv.FormatInt(v, 10))
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// ReadImage parses comma-separated intcode text. Whitespace around values
// and a trailing newline are ignored.
func ReadImage(r io.Reader) ([]int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return []int64{}, nil
	}
	fields := strings.Split(text, ",")
	image := make([]int64, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		image = append(image, v)
	}
	return image, nil
}
