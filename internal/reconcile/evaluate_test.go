package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/reconciler/internal/document"
	"github.com/MrJamesThe3rd/reconciler/internal/reconcile"
)

func TestEvaluate(t *testing.T) {
	type args struct {
		partner  *document.Document
		amount   int64
		memos    []int64
		replaces []int64
	}

	type testCase struct {
		name string
		args args
		want document.Evaluation
	}

	tests := []testCase{
		{
			name: "MissingPartner",
			args: args{amount: -189552},
			want: document.EvaluationMissingPartner,
		},
		{
			name: "MissingPartnerIgnoresAmounts",
			args: args{amount: 1000, memos: []int64{-1000}},
			want: document.EvaluationMissingPartner,
		},
		{
			name: "PrefixError",
			args: args{partner: newDoc("VCJ1046274", 530, -189552), amount: 1000000, replaces: []int64{5}},
			want: document.EvaluationPrefixError,
		},
		{
			name: "OKWithoutMemos",
			args: args{partner: newDoc("VCSU1046274", 530, -189552), amount: 0},
			want: document.EvaluationOK,
		},
		{
			name: "OKMemosCoverAmount",
			args: args{partner: newDoc("VCSU1046274", 530, -189552), amount: 200000, memos: []int64{-200000}},
			want: document.EvaluationOK,
		},
		{
			name: "POSErrorWithoutReplacements",
			args: args{partner: newDoc("VCSU1046274", 530, -189552), amount: -189552, memos: []int64{-100000, -100000}},
			want: document.EvaluationPOSError,
		},
		{
			name: "ReplaceOK",
			args: args{
				partner:  newDoc("VCSU1046274", 530, -189552),
				amount:   -189552,
				memos:    []int64{-100000, -100000},
				replaces: []int64{200000, 200000},
			},
			want: document.EvaluationReplaceOK,
		},
		{
			name: "ReplaceOKExactlyZero",
			args: args{
				partner:  newDoc("VCSU1046274", 530, -189552),
				amount:   -189552,
				memos:    []int64{-200000},
				replaces: []int64{389552},
			},
			want: document.EvaluationReplaceOK,
		},
		{
			name: "ReplaceError",
			args: args{
				partner:  newDoc("VCSU1046274", 530, -189552),
				amount:   -189552,
				memos:    []int64{-200000},
				replaces: []int64{389551},
			},
			want: document.EvaluationReplaceError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDoc("VCSU1046274", 530, tt.args.amount)
			d.Partner = tt.args.partner

			for i, amount := range tt.args.memos {
				d.Memos = append(d.Memos, newDoc("M", 600+i, amount))
			}

			if tt.args.replaces != nil {
				d.Replaces = document.NewSet()
				for i, amount := range tt.args.replaces {
					d.Replaces.Add(newDoc("R", 700+i, amount))
				}
			}

			got := reconcile.Evaluate(d)

			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsFinal())
		})
	}
}

func TestEvaluate_EmptyReplaceSetIsPOSError(t *testing.T) {
	d := newDoc("VCSU1046274", 530, -189552)
	d.Partner = newDoc("VCSU1046274", 530, -189552)
	d.Memos = []*document.Document{newDoc("M", 600, -200000)}
	d.Replaces = document.NewSet()

	assert.Equal(t, document.EvaluationPOSError, reconcile.Evaluate(d))
}
