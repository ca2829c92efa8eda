// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/beevik/prefixtree/v2"
)

type settings struct {
	HexMode         bool   `doc:"hexadecimal input mode"`
	TraceSteps      bool   `doc:"print a trace line for every instruction"`
	LogUnused       bool   `doc:"report unused opcodes as they execute"`
	LogIO           bool   `doc:"print register accesses after each step"`
	BrkStop         bool   `doc:"stop running when a BRK is reached"`
	MemDumpBytes    int    `doc:"default number of memory bytes to dump"`
	DisasmLines     int    `doc:"default number of lines to disassemble"`
	MaxStepLines    int    `doc:"max lines to disassemble when stepping"`
	IOLogSize       int    `doc:"register accesses kept for 'io list'"`
	NextDisasmAddr  uint16 `doc:"address of next disassembly"`
	NextMemDumpAddr uint16 `doc:"address of next memory dump"`
}

func newSettings() *settings {
	return &settings{
		HexMode:         false,
		TraceSteps:      false,
		LogUnused:       true,
		LogIO:           false,
		BrkStop:         false,
		MemDumpBytes:    64,
		DisasmLines:     10,
		MaxStepLines:    20,
		IOLogSize:       32,
		NextDisasmAddr:  0,
		NextMemDumpAddr: 0,
	}
}

type settingsField struct {
	name  string
	index int
	kind  reflect.Kind
	typ   reflect.Type
	doc   string
}

var (
	settingsTree   = prefixtree.New[*settingsField]()
	settingsFields []settingsField
)

func init() {
	settingsType := reflect.TypeOf(settings{})
	settingsFields = make([]settingsField, settingsType.NumField())
	for i := 0; i < len(settingsFields); i++ {
		f := settingsType.Field(i)
		doc, _ := f.Tag.Lookup("doc")
		settingsFields[i] = settingsField{
			name:  f.Name,
			index: i,
			kind:  f.Type.Kind(),
			typ:   f.Type,
			doc:   doc,
		}
		settingsTree.Add(strings.ToLower(f.Name), &settingsFields[i])
	}
}

func (s *settings) Display(w io.Writer) {
	value := reflect.ValueOf(s).Elem()
	for i, f := range settingsFields {
		v := value.Field(i)
		var s string
		switch f.kind {
		case reflect.Uint16:
			s = fmt.Sprintf("    %-16s $%04X", f.name, uint16(v.Uint()))
		default:
			s = fmt.Sprintf("    %-16s %v", f.name, v)
		}
		fmt.Fprintf(w, "%-28s (%s)\n", s, f.doc)
	}
}

// Lookup returns the field matching the unique prefix 'key'.
func (s *settings) Lookup(key string) (*settingsField, error) {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	switch err {
	case nil:
		return f, nil
	case prefixtree.ErrPrefixAmbiguous:
		return nil, fmt.Errorf("setting '%s' is ambiguous", key)
	default:
		return nil, fmt.Errorf("setting '%s' not found", key)
	}
}

func (s *settings) Set(key string, value any) error {
	f, err := s.Lookup(key)
	if err != nil {
		return err
	}

	vIn := reflect.ValueOf(value)
	if (f.kind == reflect.Bool) != (vIn.Kind() == reflect.Bool) ||
		!vIn.Type().ConvertibleTo(f.typ) {
		return errors.New("invalid type")
	}

	vOut := reflect.ValueOf(s).Elem().Field(f.index)
	vOut.Set(vIn.Convert(f.typ))
	return nil
}
