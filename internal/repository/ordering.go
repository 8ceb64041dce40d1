package repository

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// applyOrdering translates a comma separated "field,-other" expression into
// ORDER BY clauses. Fields missing from allowed are ignored; when nothing
// usable remains the fallback columns are applied instead.
func applyOrdering(db *gorm.DB, expr string, allowed map[string]string, fallback ...clause.OrderByColumn) *gorm.DB {
	var cols []clause.OrderByColumn
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		column, ok := allowed[strings.TrimPrefix(part, "-")]
		if !ok {
			continue
		}
		cols = append(cols, clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: column}, Desc: desc})
	}
	if len(cols) == 0 {
		cols = fallback
	}
	for _, c := range cols {
		db = db.Order(c)
	}
	return db
}

func orderBy(column string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: column}, Desc: desc}
}

func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(s))
	return "%" + s + "%"
}
