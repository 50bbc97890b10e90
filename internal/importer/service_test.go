package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/Tim1593/shop-db2/internal/importer"
	"github.com/Tim1593/shop-db2/internal/ledger"
	"github.com/Tim1593/shop-db2/internal/shoperr"
	"github.com/Tim1593/shop-db2/internal/stocktaking"
)

func TestService_CountSheet(t *testing.T) {
	type args struct {
		content string
	}

	type testCase struct {
		name    string
		args    args
		want    []stocktaking.ItemParams
		wantErr error
	}

	tests := []testCase{
		{
			name: "GermanHeader",
			args: args{content: "Produkt;Bezeichnung;Anzahl;Aktiv lassen\n1;Mate;24;\n2;Chips;0;ja\n3;Müsli;0;\n"},
			want: []stocktaking.ItemParams{
				{ProductID: 1, Count: 24},
				{ProductID: 2, Count: 0, KeepActive: true},
				{ProductID: 3, Count: 0},
			},
		},
		{
			name: "Headerless",
			args: args{content: "1;24\n2;0;1\n"},
			want: []stocktaking.ItemParams{
				{ProductID: 1, Count: 24},
				{ProductID: 2, Count: 0, KeepActive: true},
			},
		},
		{
			name:    "NegativeCount",
			args:    args{content: "product_id;count\n1;-1\n"},
			wantErr: shoperr.ErrInvalidAmount,
		},
		{
			name:    "NotANumber",
			args:    args{content: "product_id;count\n1;viele\n"},
			wantErr: shoperr.ErrWrongType,
		},
		{
			name:    "MissingCountColumn",
			args:    args{content: "product_id;name\nfoo;bar\n"},
			wantErr: shoperr.ErrDataMissing,
		},
	}

	svc := importer.NewService()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.CountSheet(strings.NewReader(tt.args.content))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Invoice(t *testing.T) {
	type args struct {
		content string
	}

	type testCase struct {
		name    string
		args    args
		want    []ledger.ReplenishmentParams
		wantErr error
	}

	tests := []testCase{
		{
			name: "EuropeanMoney",
			args: args{content: "Artikel;Menge;Gesamtpreis\n1;24;\"1.234,56\"\n2;10;12,50 €\n"},
			want: []ledger.ReplenishmentParams{
				{ProductID: 1, Amount: 24, TotalPrice: 123456},
				{ProductID: 2, Amount: 10, TotalPrice: 1250},
			},
		},
		{
			name:    "ZeroAmount",
			args:    args{content: "product_id;amount;total_price\n1;0;1,00\n"},
			wantErr: shoperr.ErrInvalidAmount,
		},
		{
			name:    "BadPrice",
			args:    args{content: "product_id;amount;total_price\n1;2;teuer\n"},
			wantErr: shoperr.ErrWrongType,
		},
	}

	svc := importer.NewService()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Invoice(strings.NewReader(tt.args.content))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_InvoiceLatin1(t *testing.T) {
	content, err := charmap.Windows1252.NewEncoder().String("Artikel;Stück;Summe\n4;6;3,60\n")
	require.NoError(t, err)

	got, err := importer.NewService().Invoice(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, []ledger.ReplenishmentParams{{ProductID: 4, Amount: 6, TotalPrice: 360}}, got)
}
