package mongo

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/99minutos/identity-store/internal/core/ports"
)

// filterFor translates the declarative half of a predicate into a query
// document. Match is never consulted here: the server does the filtering.
func filterFor[T any](p ports.Predicate[T]) bson.D {
	if p.Path == "" {
		return bson.D{}
	}
	if len(p.Elem) == 0 {
		return bson.D{{Key: p.Path, Value: p.Equal}}
	}

	conds := make(bson.D, 0, len(p.Elem))
	for _, c := range p.Elem {
		conds = append(conds, bson.E{Key: c.Field, Value: c.Value})
	}
	return bson.D{{Key: p.Path, Value: bson.D{{Key: "$elemMatch", Value: conds}}}}
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

// byRevision matches the stored document only while it still carries rev.
// Documents written without a stamp are matched by an empty rev.
func byRevision(id, rev string) bson.D {
	if rev == "" {
		return bson.D{
			{Key: "_id", Value: id},
			{Key: "concurrency_stamp", Value: bson.D{{Key: "$in", Value: bson.A{nil, ""}}}},
		}
	}
	return bson.D{{Key: "_id", Value: id}, {Key: "concurrency_stamp", Value: rev}}
}
