package persistence

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a lower-cased LIKE pattern matching text anywhere
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(text))) + "%"
}

// whereContains adds (LOWER(c1) LIKE ? OR LOWER(c2) LIKE ? ...) for text
func whereContains(query *gorm.DB, text string, columns ...string) *gorm.DB {
	if strings.TrimSpace(text) == "" || len(columns) == 0 {
		return query
	}
	pattern := containsPattern(text)
	conds := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		conds[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return query.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// listQuery describes how a family filters and sorts its list mode
type listQuery struct {
	searchColumns []string
	sortFields    map[string]string
	defaultSort   string
	hasIsActive   bool
	hasStatus     bool
}

// apply adds the filter conditions without paging
func (lq listQuery) apply(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = whereContains(query, filter.Search, lq.searchColumns...)
	if lq.hasIsActive && filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if lq.hasStatus && filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

// page adds order, limit and offset
func (lq listQuery) page(query *gorm.DB, filter shared.Filter) *gorm.DB {
	filter = filter.Normalize()
	col := ValidateSortField(filter.OrderBy, lq.sortFields, lq.defaultSort)
	return query.
		Order(col + " " + ValidateSortOrder(filter.OrderDir)).
		Limit(filter.PageSize).
		Offset(filter.Offset())
}

// findPage counts and loads one page of T
func findPage[T any](query *gorm.DB, lq listQuery, filter shared.Filter) ([]T, int64, error) {
	var total int64
	var items []T
	query = lq.apply(query.Model(new(T)), filter).Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := lq.page(query, filter).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
