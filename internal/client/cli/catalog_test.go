package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProductSearch(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want models.ProductSearch
	}{
		{
			name: "canonical brand plus text",
			args: []string{"GEFU", "spiral"},
			want: models.ProductSearch{Brand: "GEFU", Text: "spiral"},
		},
		{
			name: "alias resolves to canonical spelling",
			args: []string{"rader", "vase"},
			want: models.ProductSearch{Brand: "Räder", Text: "vase"},
		},
		{
			name: "short alias",
			args: []string{"ppd"},
			want: models.ProductSearch{Brand: "Paper Products Design"},
		},
		{
			name: "unknown token is free text",
			args: []string{"candle", "holder"},
			want: models.ProductSearch{Text: "candle holder"},
		},
		{
			name: "second brand token stays free text",
			args: []string{"GEFU", "Elvang"},
			want: models.ProductSearch{Brand: "GEFU", Text: "Elvang"},
		},
		{
			name: "no args",
			args: nil,
			want: models.ProductSearch{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, buildProductSearch(tc.args))
		})
	}
}

func TestApp_ProductSearch_ByBrandAlias(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{}
	app := newTestApp(t, client)
	withStubbedInput(t, "agent42", "1234")
	require.NoError(t, app.Login(ctx))
	require.NoError(t, app.Sync(ctx))

	// The feed delivers "Rader GmbH"; the record stores the canonical brand,
	// so an alias-spelled query must still find it.
	found, err := app.catalog.Search(ctx, buildProductSearch([]string{"rader"}))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "I2", found[0].ItemID)
	assert.Equal(t, "Räder", found[0].BrandCanonical)

	require.NoError(t, app.Products(ctx, []string{"rader"}))
}
