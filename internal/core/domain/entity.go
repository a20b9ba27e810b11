package domain

// Entity carries the identity every persisted aggregate shares.
type Entity struct {
	ID               string `json:"id" bson:"_id,omitempty"`
	ConcurrencyStamp string `json:"concurrency_stamp,omitempty" bson:"concurrency_stamp,omitempty"`
}

// Document is the contract repository adapters need from an aggregate.
type Document interface {
	DocumentID() string
	SetDocumentID(id string)
	Revision() string
	SetRevision(rev string)
}

// DocumentType constrains a type parameter to a pointer to a persisted aggregate.
type DocumentType[T any] interface {
	*T
	Document
}

func (e *Entity) DocumentID() string      { return e.ID }
func (e *Entity) SetDocumentID(id string) { e.ID = id }
func (e *Entity) Revision() string        { return e.ConcurrencyStamp }
func (e *Entity) SetRevision(rev string)  { e.ConcurrencyStamp = rev }
