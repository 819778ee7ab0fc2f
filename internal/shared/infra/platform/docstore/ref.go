package docstore

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

var ErrNotPopulated = errors.New("docstore: reference not populated")

// Ref es un campo de referencia. Se persiste como el _id (string) del documento
// referenciado y, tras un Populate, se lee como el documento incrustado.
type Ref struct {
	ID  string
	Doc bson.Raw
}

func NewRef(id string) Ref {
	return Ref{ID: id}
}

// Populated indica si la referencia trae el documento incrustado.
func (r Ref) Populated() bool {
	return len(r.Doc) > 0
}

// Decode vuelca el documento incrustado en v.
func (r Ref) Decode(v interface{}) error {
	if !r.Populated() {
		return ErrNotPopulated
	}
	return bson.Unmarshal(r.Doc, v)
}

func (r Ref) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(r.ID)
}

func (r *Ref) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.String:
		id, ok := bson.RawValue{Type: t, Value: data}.StringValueOK()
		if !ok {
			return fmt.Errorf("docstore: malformed string reference")
		}
		*r = Ref{ID: id}
	case bsontype.EmbeddedDocument:
		doc := make(bson.Raw, len(data))
		copy(doc, data)
		id, _ := doc.Lookup(IDField).StringValueOK()
		*r = Ref{ID: id, Doc: doc}
	case bsontype.Null, bsontype.Undefined:
		*r = Ref{}
	default:
		return fmt.Errorf("docstore: cannot decode %s into Ref", t)
	}
	return nil
}
