// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package exclude

import (
	"bytes"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// SniffSize is how many leading bytes are inspected for binary detection.
const SniffSize = 1024

// DefaultEncoding is the text encoding files are expected to decode as.
const DefaultEncoding = "utf-8"

// ErrUnknownEncoding is returned for encoding names x/text does not know.
var ErrUnknownEncoding = errors.Base("unknown text encoding")

// 🔤 TextDecoder reports whether a file head decodes as text. truncated is
// true when the file is longer than head.
type TextDecoder func(head []byte, truncated bool) bool

// NewTextDecoder looks up name in the IANA registry.
func NewTextDecoder(name string) (TextDecoder, error) {
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return decodesAsUTF8, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, errors.Errorf("%w %q: %s", ErrUnknownEncoding, name, err.Error())
	}
	if enc == nil {
		return nil, errors.Errorf("%w %q: not supported", ErrUnknownEncoding, name)
	}
	if enc == unicode.UTF8 {
		return decodesAsUTF8, nil
	}

	return decodesWith(enc), nil
}

func decodesAsUTF8(head []byte, truncated bool) bool {
	if utf8.Valid(head) {
		return true
	}
	if !truncated {
		return false
	}

	// the sniff window may end in the middle of a multi-byte rune
	for cut := 1; cut < utf8.UTFMax && cut <= len(head); cut++ {
		tail := head[len(head)-cut:]
		if !utf8.FullRune(tail) && utf8.Valid(head[:len(head)-cut]) {
			return true
		}
	}
	return false
}

func decodesWith(enc encoding.Encoding) TextDecoder {
	return func(head []byte, _ bool) bool {
		out, err := enc.NewDecoder().Bytes(head)
		if err != nil {
			return false
		}
		return !bytes.ContainsRune(out, utf8.RuneError)
	}
}

// readHead reads at most SniffSize bytes from the start of path.
func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, SniffSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, errors.Errorf("reading file head: %w", err)
	}

	return buf[:n], nil
}

// detectMIME names the content type of a file head for reports.
func detectMIME(head []byte) string {
	return mimetype.Detect(head).String()
}
