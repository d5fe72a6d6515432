package mocks

import (
	"github.com/stretchr/testify/mock"
)

type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(password string) ([]byte, error) {
	args := m.Called(password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *PasswordHasher) Verify(password string, hash []byte) bool {
	args := m.Called(password, hash)
	return args.Bool(0)
}
