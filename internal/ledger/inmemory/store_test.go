package inmemory

import (
	"context"
	"testing"

	"github.com/dvloznov/report-uploader/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	key := ledger.NewKey("PV_Informe_Semanal_20250601.pdf", 4096, "2025-06-01", "tecnicos")

	ok, err := s.IsRecorded(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	require.NoError(t, s.Record(ctx, key, ledger.Record{Filename: "PV_Informe_Semanal_20250601.pdf", Destination: "tecnicos"}))

	ok, err = s.IsRecorded(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	got.Destination = "mutated"

	again, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "tecnicos", again.Destination)
}

func TestStore_EmptyKey(t *testing.T) {
	assert.Error(t, NewStore().Record(context.Background(), "", ledger.Record{}))
}

func TestNewKey(t *testing.T) {
	assert.Equal(t, ledger.Key("PV_Informe_Diario_20250527.pdf_2048_2025-05-27"),
		ledger.NewKey("PV_Informe_Diario_20250527.pdf", 2048, "2025-05-27", ""))
	assert.Equal(t, ledger.Key("PV_Informe_Mensual_202502.pdf_512_2025-02_clientes"),
		ledger.NewKey("PV_Informe_Mensual_202502.pdf", 512, "2025-02", "clientes"))
}
