package mongo

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"write conflict", mongo.CommandError{Code: 112, Labels: []string{transientTransactionLabel}}, true},
		{"wrapped write conflict", fmt.Errorf("insert: %w", mongo.CommandError{Code: 112, Labels: []string{transientTransactionLabel}}), true},
		{"duplicate key", mongo.CommandError{Code: 11000}, true},
		{"unknown commit result only", mongo.CommandError{Labels: []string{unknownCommitResultLabel}}, false},
		{"other server error", mongo.CommandError{Code: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient() = %v, want %v", got, tt.want)
			}
		})
	}
}
