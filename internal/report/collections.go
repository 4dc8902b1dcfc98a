package report

import (
	"github.com/dparodi/hacienda/internal/report/bankmov"
	"github.com/dparodi/hacienda/internal/report/budget"
	"github.com/dparodi/hacienda/internal/report/payables"
	"github.com/dparodi/hacienda/internal/report/planning"
	"github.com/dparodi/hacienda/internal/report/providers"
	"github.com/dparodi/hacienda/internal/report/renditions"
	"github.com/dparodi/hacienda/internal/schema"
)

// schemas maps each collection to the schema its documents were validated
// against. Field order here is the column order of exports.
var schemas = map[string]schema.Schema{
	budget.CollectionName:     budget.Schema(),
	payables.CollectionName:   payables.Schema(),
	bankmov.CollectionName:    bankmov.Schema(),
	renditions.CollectionName: renditions.Schema(),
	planning.CollectionName:   planning.Schema(),
	providers.CollectionName:  providers.Schema(),
}

// KnownCollection reports whether name is a collection this service manages.
func KnownCollection(name string) bool {
	_, ok := schemas[name]
	return ok
}

// FieldsFor returns the export column order of a collection, nil for
// collections we do not manage.
func FieldsFor(name string) []string {
	sch, ok := schemas[name]
	if !ok {
		return nil
	}

	fields := make([]string, len(sch.Fields))
	for i, f := range sch.Fields {
		fields[i] = f.Name
	}

	return fields
}
