package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/reconciler/internal/document"
	"github.com/MrJamesThe3rd/reconciler/internal/ledger"
	"github.com/MrJamesThe3rd/reconciler/internal/reconcile"
)

var billedAt = time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)

func newRow(docNum string, trx int, amount int64, memos string) document.Row {
	line, store, pos := 1, 16, 17
	billed := billedAt
	customer := int64(900965992)

	return document.Row{
		StoreName:   "JUMBO CARRERA 30 (16)",
		DocNum:      docNum,
		Line:        &line,
		Store:       &store,
		POS:         &pos,
		TRX:         &trx,
		BilledAt:    &billed,
		Amount:      &amount,
		Customer:    &customer,
		MemoNumbers: memos,
	}
}

func newDoc(docNum string, trx int, amount int64) *document.Document {
	d, err := document.New(newRow(docNum, trx, amount, ""))
	if err != nil {
		panic(err)
	}

	return d
}

type mocks struct {
	billing *reconcile.MockBillingLedger
	partner *reconcile.MockPartnerLedger
}

func newService(t *testing.T, opts reconcile.Options) (*reconcile.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		billing: reconcile.NewMockBillingLedger(ctrl),
		partner: reconcile.NewMockPartnerLedger(ctrl),
	}

	opts.Logger = zerolog.Nop()

	return reconcile.NewService(m.billing, m.partner, opts), m
}

func TestService_Resolve(t *testing.T) {
	memo1 := newDoc("VCSU1046072", 601, -100000)
	memo2 := newDoc("VCJ82014804", 602, -100000)

	type testCase struct {
		name         string
		row          document.Row
		setupMock    func(m mocks)
		want         document.Evaluation
		wantMemos    []string
		wantReplaces []string
		wantErr      error
	}

	tests := []testCase{
		{
			name: "MissingPartner",
			row:  newRow("VCSU1046274", 530, -189552, ""),
			setupMock: func(m mocks) {
				m.partner.EXPECT().FindByAttributes(gomock.Any(), ledger.Attributes{
					Line: 1, Store: 16, POS: 17, TRX: 530, BilledAt: billedAt,
				}).Return(nil, nil)
			},
			want:      document.EvaluationMissingPartner,
			wantMemos: []string{},
		},
		{
			name: "POSError",
			row:  newRow("VCSU1046274", 530, -189552, "VCSU1046072|VCJ82014804"),
			setupMock: func(m mocks) {
				m.billing.EXPECT().
					FindMemosByNumbers(gomock.Any(), []string{"VCSU1046072", "VCJ82014804"}).
					Return([]*document.Document{memo1, memo2}, nil)
				m.partner.EXPECT().FindByAttributes(gomock.Any(), gomock.Any()).
					Return(newDoc("VCSU1046274", 530, -189552), nil)
				m.billing.EXPECT().FindByAttributes(gomock.Any(), ledger.AttributesOf(memo1)).Return(nil, nil)
				m.billing.EXPECT().FindByAttributes(gomock.Any(), ledger.AttributesOf(memo2)).Return(nil, nil)
			},
			want:         document.EvaluationPOSError,
			wantMemos:    []string{"VCSU1046072", "VCJ82014804"},
			wantReplaces: []string{},
		},
		{
			name: "ReplaceOK",
			row:  newRow("VCSU1046274", 530, -189552, "VCSU1046072|VCJ82014804"),
			setupMock: func(m mocks) {
				m.billing.EXPECT().FindMemosByNumbers(gomock.Any(), gomock.Any()).
					Return([]*document.Document{memo1, memo2}, nil)
				m.partner.EXPECT().FindByAttributes(gomock.Any(), gomock.Any()).
					Return(newDoc("VCSU1046274", 530, -189552), nil)
				m.billing.EXPECT().FindByAttributes(gomock.Any(), ledger.AttributesOf(memo1)).
					Return(newDoc("VCSU1046500", 601, 200000), nil)
				m.billing.EXPECT().FindByAttributes(gomock.Any(), ledger.AttributesOf(memo2)).
					Return(newDoc("VCSU1046501", 602, 200000), nil)
			},
			want:         document.EvaluationReplaceOK,
			wantMemos:    []string{"VCSU1046072", "VCJ82014804"},
			wantReplaces: []string{"VCSU1046500", "VCSU1046501"},
		},
		{
			name: "SharedReplacementCountedOnce",
			row:  newRow("VCSU1046274", 530, -189552, "VCSU1046072|VCJ82014804"),
			setupMock: func(m mocks) {
				m.billing.EXPECT().FindMemosByNumbers(gomock.Any(), gomock.Any()).
					Return([]*document.Document{memo1, memo2}, nil)
				m.partner.EXPECT().FindByAttributes(gomock.Any(), gomock.Any()).
					Return(newDoc("VCSU1046274", 530, -189552), nil)
				m.billing.EXPECT().FindByAttributes(gomock.Any(), gomock.Any()).
					DoAndReturn(func(context.Context, ledger.Attributes) (*document.Document, error) {
						return newDoc("VCSU1046500", 601, 389551), nil
					}).
					Times(2)
			},
			want:         document.EvaluationReplaceError,
			wantMemos:    []string{"VCSU1046072", "VCJ82014804"},
			wantReplaces: []string{"VCSU1046500"},
		},
		{
			name: "PrefixError",
			row:  newRow("VCSU1046274", 530, -189552, ""),
			setupMock: func(m mocks) {
				m.partner.EXPECT().FindByAttributes(gomock.Any(), gomock.Any()).
					Return(newDoc("VCJ1046274", 530, -189552), nil)
			},
			want:      document.EvaluationPrefixError,
			wantMemos: []string{},
		},
		{
			name: "MemosNotFound",
			row:  newRow("VCSU1046274", 530, 0, "VCSU1046072"),
			setupMock: func(m mocks) {
				m.billing.EXPECT().FindMemosByNumbers(gomock.Any(), gomock.Any()).Return(nil, nil)
				m.partner.EXPECT().FindByAttributes(gomock.Any(), gomock.Any()).
					Return(newDoc("VCSU1046274", 530, 0), nil)
			},
			want:      document.EvaluationOK,
			wantMemos: []string{},
		},
		{
			name: "BlankMemoField",
			row:  newRow("VCSU1046274", 530, 0, " | "),
			setupMock: func(m mocks) {
				m.partner.EXPECT().FindByAttributes(gomock.Any(), gomock.Any()).
					Return(newDoc("VCSU1046274", 530, 0), nil)
			},
			want:      document.EvaluationOK,
			wantMemos: []string{},
		},
		{
			name: "MemoLookupFails",
			row:  newRow("VCSU1046274", 530, -189552, "VCSU1046072"),
			setupMock: func(m mocks) {
				m.billing.EXPECT().FindMemosByNumbers(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: connection reset", document.ErrLookupFailure))
			},
			wantErr: document.ErrLookupFailure,
		},
		{
			name: "ReplacementLookupFails",
			row:  newRow("VCSU1046274", 530, -189552, "VCSU1046072"),
			setupMock: func(m mocks) {
				m.billing.EXPECT().FindMemosByNumbers(gomock.Any(), gomock.Any()).
					Return([]*document.Document{memo1}, nil)
				m.partner.EXPECT().FindByAttributes(gomock.Any(), gomock.Any()).Return(nil, nil)
				m.billing.EXPECT().FindByAttributes(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: timeout", document.ErrLookupFailure))
			},
			wantErr: document.ErrLookupFailure,
		},
		{
			name:    "InvalidRow",
			row:     document.Row{DocNum: "VCSU1046274"},
			wantErr: document.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t, reconcile.Options{})
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.Resolve(context.Background(), tt.row)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Evaluation)
			assert.Equal(t, tt.wantMemos, got.MemoNumbers())

			if tt.wantReplaces == nil {
				assert.Nil(t, got.Replaces)
			} else {
				assert.Equal(t, tt.wantReplaces, got.ReplaceNumbers())
			}
		})
	}
}

func TestService_ResolveAll(t *testing.T) {
	t.Run("FailedRowIsDropped", func(t *testing.T) {
		svc, m := newService(t, reconcile.Options{Workers: 3})

		var rows []document.Row
		for trx := 1; trx <= 10; trx++ {
			rows = append(rows, newRow(fmt.Sprintf("VCSU%d", trx), trx, -1000, ""))
		}

		m.partner.EXPECT().FindByAttributes(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a ledger.Attributes) (*document.Document, error) {
				if a.TRX == 5 {
					return nil, fmt.Errorf("%w: ORA-03113", document.ErrLookupFailure)
				}

				return newDoc(fmt.Sprintf("VCSU%d", a.TRX), a.TRX, -1000), nil
			}).
			Times(10)

		got, err := svc.ResolveAll(context.Background(), rows)
		require.NoError(t, err)

		var nums []string
		for _, d := range got {
			nums = append(nums, d.DocNum)
			assert.Equal(t, document.EvaluationPOSError, d.Evaluation)
		}

		assert.ElementsMatch(t, []string{
			"VCSU1", "VCSU2", "VCSU3", "VCSU4", "VCSU6", "VCSU7", "VCSU8", "VCSU9", "VCSU10",
		}, nums)
	})

	t.Run("CompletionOrder", func(t *testing.T) {
		svc, m := newService(t, reconcile.Options{Workers: 2})

		fastCalled := make(chan struct{})

		m.partner.EXPECT().FindByAttributes(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a ledger.Attributes) (*document.Document, error) {
				if a.TRX == 1 {
					<-fastCalled
					time.Sleep(50 * time.Millisecond)
				} else {
					close(fastCalled)
				}

				return nil, nil
			}).
			Times(2)

		got, err := svc.ResolveAll(context.Background(), []document.Row{
			newRow("SLOW", 1, -1, ""),
			newRow("FAST", 2, -1, ""),
		})

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "FAST", got[0].DocNum, "documents come back as they finish, not in input order")
		assert.Equal(t, "SLOW", got[1].DocNum)
	})

	t.Run("LookupTimeoutDropsRow", func(t *testing.T) {
		svc, m := newService(t, reconcile.Options{LookupTimeout: 10 * time.Millisecond})

		m.partner.EXPECT().FindByAttributes(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ ledger.Attributes) (*document.Document, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			})

		got, err := svc.ResolveAll(context.Background(), []document.Row{newRow("HUNG", 1, -1, "")})

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		svc, _ := newService(t, reconcile.Options{})

		_, err := svc.ResolveAll(context.Background(), nil)
		assert.True(t, errors.Is(err, document.ErrInvalidArgument))
	})

	t.Run("Cancelled", func(t *testing.T) {
		svc, _ := newService(t, reconcile.Options{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.ResolveAll(ctx, []document.Row{newRow("VCSU1", 1, -1, "")})
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestService_Run(t *testing.T) {
	period, err := document.ParsePeriod("2025-06-01", "2025-06-30")
	require.NoError(t, err)

	t.Run("NoInvoices", func(t *testing.T) {
		svc, m := newService(t, reconcile.Options{})
		m.billing.EXPECT().FetchNegativeInvoices(gomock.Any(), period.Start, period.End).Return([]document.Row{}, nil)

		got, err := svc.Run(context.Background(), period)
		assert.Nil(t, got)
		assert.True(t, errors.Is(err, reconcile.ErrNoInvoices))
	})

	t.Run("FetchFails", func(t *testing.T) {
		svc, m := newService(t, reconcile.Options{})
		m.billing.EXPECT().FetchNegativeInvoices(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("%w: biller down", document.ErrLookupFailure))

		_, err := svc.Run(context.Background(), period)
		assert.True(t, errors.Is(err, document.ErrLookupFailure))
	})

	t.Run("Success", func(t *testing.T) {
		svc, m := newService(t, reconcile.Options{})

		m.billing.EXPECT().FetchNegativeInvoices(gomock.Any(), period.Start, period.End).
			Return([]document.Row{
				newRow("VCSU1", 1, -1000, ""),
				newRow("VCSU2", 2, -1000, ""),
				newRow("VCSU3", 3, -1000, ""),
				{DocNum: "BROKEN"},
			}, nil)

		m.partner.EXPECT().FindByAttributes(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a ledger.Attributes) (*document.Document, error) {
				switch a.TRX {
				case 1:
					return nil, nil
				case 2:
					return newDoc("VCJ2", 2, -1000), nil
				default:
					return newDoc("VCSU3", 3, -1000), nil
				}
			}).
			Times(3)

		got, err := svc.Run(context.Background(), period)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, got.RunID)
		assert.Equal(t, period, got.Period)
		assert.Len(t, got.Documents, 3)
		assert.Equal(t, 4, got.Summary.Rows)
		assert.Equal(t, 3, got.Summary.Resolved)
		assert.Equal(t, 1, got.Summary.Dropped)
		assert.Equal(t, 1, got.Summary.Count(document.EvaluationMissingPartner))
		assert.Equal(t, 1, got.Summary.Count(document.EvaluationPrefixError))
		assert.Equal(t, 1, got.Summary.Count(document.EvaluationPOSError))
		assert.Equal(t, 0, got.Summary.Count(document.EvaluationOK))
	})
}
