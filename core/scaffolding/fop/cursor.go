package fop

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// Cursor is the keyset position of a record: the value of the order field and the
// primary key used as tie-breaker.
type Cursor[PK any, OrderValue any] struct {
	OrderValue OrderValue `json:"order_value"`
	PK         PK         `json:"pk"`
}

func (c Cursor[PK, OrderValue]) Encode() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// DecodeCursor returns nil, nil for an empty token.
func DecodeCursor[PK any, OrderValue any](token string) (*Cursor[PK, OrderValue], error) {
	if token == "" {
		return nil, nil
	}

	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	var cursor Cursor[PK, OrderValue]
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("unmarshal cursor: %w", err)
	}

	return &cursor, nil
}

// EncodeRecordCursor builds the cursor for record from the fields tagged
// db:"<orderColumn>" and db:"<pkColumn>". Times are written as RFC 3339 so the
// database can compare them as text input.
func EncodeRecordCursor(record any, orderColumn, pkColumn string) (string, error) {
	v := reflect.Indirect(reflect.ValueOf(record))
	if v.Kind() != reflect.Struct {
		return "", fmt.Errorf("cursor record must be a struct, got %s", v.Kind())
	}

	orderValue, ok := dbField(v, orderColumn)
	if !ok {
		return "", fmt.Errorf("cursor order column %q not found", orderColumn)
	}
	pk, ok := dbField(v, pkColumn)
	if !ok {
		return "", fmt.Errorf("cursor pk column %q not found", pkColumn)
	}

	return Cursor[any, any]{
		OrderValue: cursorValue(orderValue),
		PK:         cursorValue(pk),
	}.Encode()
}

func dbField(v reflect.Value, column string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			if fv, ok := dbField(v.Field(i), column); ok {
				return fv, true
			}
			continue
		}
		if f.Tag.Get("db") == column {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func cursorValue(v reflect.Value) any {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if t, ok := v.Interface().(time.Time); ok {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return v.Interface()
}
