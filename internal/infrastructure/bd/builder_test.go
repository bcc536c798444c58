package db

import (
	"testing"

	"hvac-service/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyListParams(t *testing.T) {
	allowed := map[string]string{"status": "wo.status", "site_id": "wo.site_id", "scheduled_date": "wo.scheduled_date"}
	filter := types.Filter{
		Filter:         map[string]interface{}{"status": "OPEN,IN_PROGRESS", "site_id": "s1", "password": "x"},
		Sort:           map[string]string{"scheduled_date": "desc", "unknown": "asc"},
		Limit:          20,
		Offset:         40,
		WithPagination: true,
	}

	sql, args, err := ApplyListParams(Psql.Select("wo.id").From("work_orders wo"), filter, allowed, "wo.created_at DESC").ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT wo.id FROM work_orders wo WHERE wo.site_id = $1 AND wo.status IN ($2,$3) ORDER BY wo.scheduled_date DESC LIMIT 20 OFFSET 40",
		sql)
	assert.Equal(t, []interface{}{"s1", "OPEN", "IN_PROGRESS"}, args)
}

func TestApplyListParams_DefaultOrderWithoutPagination(t *testing.T) {
	sql, _, err := ApplyListParams(Psql.Select("id").From("assets"), types.Filter{}, nil, "created_at DESC").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM assets ORDER BY created_at DESC", sql)
}
