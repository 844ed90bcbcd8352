package models

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// StringList holds product image URLs. Older product documents store a single
// URL string instead of an array; both decode to the same list.
type StringList []string

// UnmarshalBSONValue accepts null, a string or an array of strings. Entries
// are trimmed and blank ones dropped. Any other BSON type is an error, which
// the store reports as a malformed record.
func (s *StringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var raw []string
	switch t {
	case bsontype.Null:
		*s = nil
		return nil
	case bsontype.String:
		var one string
		if err := bson.UnmarshalValue(t, data, &one); err != nil {
			return err
		}
		raw = []string{one}
	case bsontype.Array:
		if err := bson.UnmarshalValue(t, data, &raw); err != nil {
			return fmt.Errorf("decode image list: %w", err)
		}
	default:
		return fmt.Errorf("image list: unexpected bson type %s", t)
	}

	urls := make(StringList, 0, len(raw))
	for _, u := range raw {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	*s = urls
	return nil
}

// MarshalBSONValue always writes an array, so a nil list is stored as [].
func (s StringList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if s == nil {
		return bson.MarshalValue([]string{})
	}
	return bson.MarshalValue([]string(s))
}
