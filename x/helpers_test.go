package x

import (
	"context"
	"testing"

	"github.com/signet-one/signet"
	"github.com/signet-one/signet/signettest"
	"github.com/signet-one/signet/signettest/assert"
)

func TestAuth(t *testing.T) {
	a := signettest.NewCondition()
	b := signettest.NewCondition()
	c := signettest.NewCondition()

	ctx1 := &signettest.CtxAuth{Key: "foo"}
	ctx2 := &signettest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          signet.Context
		auth         Authenticator
		mainSigner   signet.Condition
		wantInCtx    signet.Condition
		wantNotInCtx signet.Condition
		wantAll      []signet.Condition
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &signettest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         &signettest.Auth{Signer: a},
			mainSigner:   a,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []signet.Condition{a},
		},
		"chained auth keeps order": {
			ctx: context.Background(),
			auth: ChainAuth(
				&signettest.Auth{Signer: b},
				&signettest.Auth{Signer: a}),
			mainSigner:   b,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []signet.Condition{b, a},
		},
		"ctxAuth checks what is set by same key": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx1,
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []signet.Condition{a, b},
		},
		"ctxAuth with different key sees nothing": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx2,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSigner, MainSigner(tc.ctx, tc.auth))

			if tc.wantInCtx != nil && !tc.auth.HasAddress(tc.ctx, tc.wantInCtx.Address()) {
				t.Fatal("condition address that was expected in context not found")
			}
			if tc.wantNotInCtx != nil && tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx.Address()) {
				t.Fatal("condition address that was expected not to be in context found")
			}

			want := make([]signet.Address, len(tc.wantAll))
			for i, cond := range tc.wantAll {
				want[i] = cond.Address()
			}
			all := GetAddresses(tc.ctx, tc.auth)
			assert.Equal(t, want, all)

			if !HasAllAddresses(tc.ctx, tc.auth, all) {
				t.Fatal("has all addresses check failed")
			}
			if HasAllAddresses(tc.ctx, tc.auth, append(all, tc.wantNotInCtx.Address())) {
				t.Fatal("has all addresses succeeded with a missing address")
			}

			if len(all) > 0 {
				if !HasNAddresses(tc.ctx, tc.auth, all, len(all)-1) {
					t.Fatal("want address check of a subset to succeed")
				}
				if HasNAddresses(tc.ctx, tc.auth, all, len(all)+1) {
					t.Fatal("want address check of a superset to fail")
				}
			}
		})
	}
}
