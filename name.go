// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux || freebsd || netbsd
// +build linux freebsd netbsd

package posixmq

import (
	"bytes"

	"github.com/pkg/errors"
)

// nameBufSize covers typical names plus the separator and terminator
// without a heap allocation.
const nameBufSize = 48

// encodeName converts a queue name into the nul-terminated,
// separator-prefixed form the kernel call expects. A single leading '/'
// is not duplicated. The name is treated as opaque bytes; no text
// encoding is assumed. op names the calling operation for error reports.
func encodeName(op, name string) ([]byte, error) {
	if len(name) > 0 && name[0] == '/' {
		name = name[1:]
	}
	var encoded []byte
	if len(name)+2 <= nameBufSize {
		var buf [nameBufSize]byte
		encoded = buf[:len(name)+2]
	} else {
		encoded = make([]byte, len(name)+2)
	}
	encoded[0] = '/'
	copy(encoded[1:], name)
	if bytes.IndexByte(encoded, 0) != len(encoded)-1 {
		return nil, newKindError(op, name, KindInvalidInput, errors.New("name contains a nul byte"))
	}
	return encoded, nil
}

// encodeRawName appends only the nul terminator, bypassing all
// normalization. NetBSD accepts queue names without a leading '/',
// and raw encoding is the only way to reach them.
func encodeRawName(op, name string) ([]byte, error) {
	encoded := make([]byte, len(name)+1)
	copy(encoded, name)
	if bytes.IndexByte(encoded, 0) != len(encoded)-1 {
		return nil, newKindError(op, name, KindInvalidInput, errors.New("name contains a nul byte"))
	}
	return encoded, nil
}
