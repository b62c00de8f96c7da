// Package engine turns a JSON token stream into a tree of map[string]any,
// []any, string, bool, nil and numbers.
package engine

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
)

// Kind classifies a Token.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token is one lexical element. String carries keys and string values,
// Number the literal text of a number.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource yields tokens in document order. Location is the number of
// input bytes consumed so far.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

var (
	// ErrUnexpectedToken is returned when the stream is not well formed.
	ErrUnexpectedToken = errors.New("unexpected JSON token")
	// ErrTrailingData is returned when input continues after the top-level value.
	ErrTrailingData = errors.New("unexpected data after top-level value")
)

// DecodeAnyFromSource decodes exactly one value, keeping numbers as
// json.Number. Input that ends early fails with io.ErrUnexpectedEOF and input
// that continues after the value fails with ErrTrailingData.
func DecodeAnyFromSource(src TokenSource) (any, error) {
	d := treeDecoder{src: src, number: func(s string) (any, error) { return json.Number(s), nil }}
	return d.document()
}

// DecodeAnyFromSourceAsFloat64 is DecodeAnyFromSource with numbers as float64.
func DecodeAnyFromSourceAsFloat64(src TokenSource) (any, error) {
	d := treeDecoder{src: src, number: func(s string) (any, error) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	}}
	return d.document()
}

type treeDecoder struct {
	src    TokenSource
	number func(string) (any, error)
}

func (d treeDecoder) document() (any, error) {
	v, err := d.next()
	if err != nil {
		return nil, err
	}
	switch _, err := d.src.NextToken(); {
	case errors.Is(err, io.EOF):
		return v, nil
	case err != nil:
		return nil, err
	}
	return nil, ErrTrailingData
}

// token is NextToken where the end of input is always premature.
func (d treeDecoder) token() (Token, error) {
	tok, err := d.src.NextToken()
	if errors.Is(err, io.EOF) {
		return Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}

func (d treeDecoder) next() (any, error) {
	tok, err := d.token()
	if err != nil {
		return nil, err
	}
	return d.value(tok)
}

func (d treeDecoder) value(tok Token) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		m := map[string]any{}
		for {
			kt, err := d.token()
			if err != nil {
				return nil, err
			}
			if kt.Kind == KindEndObject {
				return m, nil
			}
			if kt.Kind != KindKey {
				return nil, ErrUnexpectedToken
			}
			v, err := d.next()
			if err != nil {
				return nil, err
			}
			m[kt.String] = v
		}
	case KindBeginArray:
		arr := []any{}
		for {
			et, err := d.token()
			if err != nil {
				return nil, err
			}
			if et.Kind == KindEndArray {
				return arr, nil
			}
			v, err := d.value(et)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
	case KindString:
		return tok.String, nil
	case KindNumber:
		return d.number(tok.Number)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	}
	return nil, ErrUnexpectedToken
}
