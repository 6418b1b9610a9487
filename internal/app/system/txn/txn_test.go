package txn_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tdnguyen/phieutrinh/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{
			"illegal operation command error",
			mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member or mongos"},
			true,
		},
		{
			"no such command",
			mongo.CommandError{Code: 59, Message: "no such command"},
			false,
		},
		{
			"wrapped command error",
			fmt.Errorf("delete organization: %w", mongo.CommandError{Code: 263, Message: "API version mismatch"}),
			true,
		},
		{
			"replica set message",
			errors.New("transaction numbers are only allowed on a replica set member"),
			true,
		},
		{
			"sessions not supported message",
			errors.New("current topology does not support sessions: not supported"),
			true,
		},
		{
			"unrelated error",
			errors.New("connection refused"),
			false,
		},
		{
			"duplicate key error",
			mongo.CommandError{Code: 11000, Message: "E11000 duplicate key error"},
			false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := txn.IsNotSupported(tc.err); got != tc.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
