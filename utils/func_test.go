package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCmdRewrite(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sha256sum", "SHA256"},
		{"HashTitle", "TITLEHASH"},
		{"titlesetnx", "TITLEADD"},
		{"titleadd", "TITLEADD"},
		{"ping", "PING"},
	}
	for _, tt := range tests {
		args := [][]byte{[]byte(tt.in), []byte("arg")}
		assert.Equal(t, tt.want, CmdRewrite(args))
		assert.Equal(t, tt.want, string(args[0]))
		assert.Equal(t, "arg", string(args[1]))
	}
	assert.Equal(t, "", CmdRewrite(nil))
}

func TestGoWithRecover(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	GoWithRecover(func() {
		panic("boom")
	}, func(r interface{}) {
		defer wg.Done()
		assert.Equal(t, "boom", r)
	})
	wg.Wait()
}

func TestGetInterfaceString(t *testing.T) {
	assert.Equal(t, "abc", GetInterfaceString([]byte("abc")))
	assert.Equal(t, "12", GetInterfaceString(12))
	assert.Equal(t, "0.50", GetInterfaceString("0.50"))
	assert.Equal(t, "7", GetInterfaceString(uint64(7)))
	assert.True(t, InArray("b", []string{"a", "b"}))
	assert.False(t, InArray("c", []string{"a", "b"}))
}
