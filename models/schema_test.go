package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestSchema_Parse(t *testing.T) {
	cache := &sync.Map{}
	for _, m := range []interface{}{&User{}, &Budget{}, &BudgetEntry{}} {
		_, err := schema.Parse(m, cache, schema.NamingStrategy{})
		require.NoError(t, err)
	}
}

func TestSchema_BudgetStartNullable(t *testing.T) {
	s, err := schema.Parse(&Budget{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	start := s.LookUpField("start")
	require.NotNil(t, start)
	assert.False(t, start.HasDefaultValue)
	assert.Nil(t, start.DefaultValueInterface)
	assert.False(t, start.NotNull)
	assert.Equal(t, "decimal(10,2)", string(start.DataType))
}
