// Package query builds MongoDB aggregation pipelines out of named stages so
// the shape of each stage can be tested independently of a live database.
package query

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Pipeline accumulates aggregation stages in order.
type Pipeline struct {
	stages mongo.Pipeline
}

// New returns an empty pipeline.
func New() *Pipeline {
	return &Pipeline{}
}

// Build returns the assembled stages ready for Collection.Aggregate.
func (p *Pipeline) Build() mongo.Pipeline {
	return p.stages
}

func (p *Pipeline) append(name string, value interface{}) *Pipeline {
	p.stages = append(p.stages, bson.D{{Key: name, Value: value}})
	return p
}

// Match appends a $match stage.
func (p *Pipeline) Match(filter bson.M) *Pipeline {
	return p.append("$match", filter)
}

// Lookup appends a $lookup joining documents from another collection into
// the field named as. An optional sub-pipeline shapes the joined documents.
func (p *Pipeline) Lookup(from, localField, foreignField, as string, sub *Pipeline) *Pipeline {
	spec := bson.M{
		"from":         from,
		"localField":   localField,
		"foreignField": foreignField,
		"as":           as,
	}
	if sub != nil && len(sub.stages) > 0 {
		spec["pipeline"] = sub.stages
	}
	return p.append("$lookup", spec)
}

// Unwind appends a $unwind stage for the given field path.
func (p *Pipeline) Unwind(path string, preserveEmpty bool) *Pipeline {
	return p.append("$unwind", bson.M{
		"path":                       path,
		"preserveNullAndEmptyArrays": preserveEmpty,
	})
}

// AddFields appends an $addFields stage.
func (p *Pipeline) AddFields(fields bson.M) *Pipeline {
	return p.append("$addFields", fields)
}

// Project appends a $project stage.
func (p *Pipeline) Project(fields bson.M) *Pipeline {
	return p.append("$project", fields)
}

// Sort appends a $sort stage on a single field. desc sorts newest/largest first.
func (p *Pipeline) Sort(field string, desc bool) *Pipeline {
	dir := 1
	if desc {
		dir = -1
	}
	return p.append("$sort", bson.D{{Key: field, Value: dir}})
}

// Skip appends a $skip stage.
func (p *Pipeline) Skip(n int64) *Pipeline {
	return p.append("$skip", n)
}

// Limit appends a $limit stage.
func (p *Pipeline) Limit(n int64) *Pipeline {
	return p.append("$limit", n)
}

// Group appends a $group stage.
func (p *Pipeline) Group(spec bson.M) *Pipeline {
	return p.append("$group", spec)
}

// Count appends a $count stage writing the total into the named field.
func (p *Pipeline) Count(field string) *Pipeline {
	return p.append("$count", field)
}

// ReplaceRoot appends a $replaceRoot stage promoting the document at path.
func (p *Pipeline) ReplaceRoot(path string) *Pipeline {
	return p.append("$replaceRoot", bson.M{"newRoot": path})
}

// Size returns a $size expression over the given array field path.
func Size(path string) bson.M {
	return bson.M{"$size": path}
}

// First returns a $first expression over the given array field path, used to
// collapse a single-element lookup result into an embedded document.
func First(path string) bson.M {
	return bson.M{"$first": path}
}

// Sum returns a $sum accumulator over the given field path.
func Sum(path string) bson.M {
	return bson.M{"$sum": path}
}

// In returns a boolean $in expression testing membership of value in the
// array at path.
func In(value interface{}, path string) bson.M {
	return bson.M{"$in": bson.A{value, path}}
}

// Cond returns a $cond expression.
func Cond(ifExpr, thenVal, elseVal interface{}) bson.M {
	return bson.M{"$cond": bson.M{"if": ifExpr, "then": thenVal, "else": elseVal}}
}
