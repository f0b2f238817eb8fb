package driver

import (
	"bytes"
	"strings"
	"testing"
)

func TestDecodeUTF8(t *testing.T) {
	text, fe := Decode([]byte("x = 'héllo'\n"))
	if fe.Name != "utf-8" || fe.BOM {
		t.Fatalf("unexpected encoding %+v", fe)
	}
	if text != "x = 'héllo'\n" {
		t.Fatalf("got %q", text)
	}
}

func TestDecodeBOMRoundTrip(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("x = 1\n")...)
	text, fe := Decode(data)
	if !fe.BOM {
		t.Fatal("BOM not detected")
	}
	if text != "x = 1\n" {
		t.Fatalf("BOM leaked into text: %q", text)
	}
	out, err := fe.Encode(text)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("round trip lost the BOM: %v", out[:3])
	}
}

func TestDecodeDeclaredEncodingRoundTrip(t *testing.T) {
	// 0xE9 is "é" in latin-1 and invalid UTF-8 on its own.
	data := []byte("# -*- coding: latin-1 -*-\ns = '\xe9'\n")
	text, fe := Decode(data)
	if fe.Name != "latin-1" {
		t.Fatalf("detected %q", fe.Name)
	}
	if !strings.Contains(text, "é") {
		t.Fatalf("decoded text %q", text)
	}
	out, err := fe.Encode(text)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("round trip changed bytes: %q", out)
	}
}

func TestDetectEncodingSecondLine(t *testing.T) {
	fe := DetectEncoding([]byte("#!/usr/bin/env python\n# coding: iso-8859-15\n"))
	if fe.Name != "iso-8859-15" {
		t.Fatalf("detected %q", fe.Name)
	}
	// The declaration only counts on the first two lines.
	fe = DetectEncoding([]byte("a = 1\nb = 2\n# coding: latin-1\n"))
	if fe.Name != "utf-8" {
		t.Fatalf("declaration past line two honored: %q", fe.Name)
	}
}

func TestDecodeUnknownCodecFallsBack(t *testing.T) {
	_, fe := Decode([]byte("# coding: no-such-codec\nx = 1\n"))
	if fe.Name != "latin-1" {
		t.Fatalf("expected latin-1 fallback, got %q", fe.Name)
	}
}

func TestDecodeInvalidUTF8FallsBack(t *testing.T) {
	data := []byte("s = '\xe9'\n")
	text, fe := Decode(data)
	if fe.Name != "latin-1" {
		t.Fatalf("expected latin-1 fallback, got %q", fe.Name)
	}
	out, err := fe.Encode(text)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("fallback round trip changed bytes: %q", out)
	}
}
