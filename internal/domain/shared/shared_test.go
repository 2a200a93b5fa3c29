package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("load customer: %w", NotFound("customer", 7))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidState))
	assert.Equal(t, "load customer: customer 7 not found", err.Error())
}

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 1000, OrderDir: "ASC", Search: "  acme "}.Normalize()

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, MaxPageSize, f.PageSize)
	assert.Equal(t, "asc", f.OrderDir)
	assert.Equal(t, "acme", f.Search)
	assert.Equal(t, 0, f.Offset())

	f = Filter{Page: 3, PageSize: 10}.Normalize()
	assert.Equal(t, "desc", f.OrderDir)
	assert.Equal(t, 20, f.Offset())
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 21, 1, 10)
	assert.Equal(t, 3, p.TotalPages)

	empty := NewPaginated[int](nil, 0, 1, 10)
	assert.NotNil(t, empty.Items)

	var pager Pager = p
	assert.Equal(t, PageInfo{Total: 21, Page: 1, PageSize: 10, TotalPages: 3}, pager.Info())
	assert.Equal(t, []int{1, 2}, pager.Rows())
	assert.Equal(t, 0, empty.TotalPages)
}

func TestAudit_Touch(t *testing.T) {
	var a Audit
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a.Touch("alice", t0)
	a.Touch("bob", t0.Add(time.Hour))

	assert.Equal(t, t0, a.CreatedAt)
	assert.Equal(t, "alice", a.CreatedBy)
	assert.Equal(t, "bob", a.UpdatedBy)
	assert.Equal(t, t0.Add(time.Hour), a.UpdatedAt)
}

func TestActorFrom(t *testing.T) {
	assert.Equal(t, SystemActor, ActorFrom(context.Background()))
	assert.Equal(t, SystemActor, ActorFrom(WithActor(context.Background(), "")))
	assert.Equal(t, "alice", ActorFrom(WithActor(context.Background(), "alice")))
}
