package utils

import (
	"os"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

func GoWithRecover(handler func(), recoverHandler func(r interface{})) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logrus.Errorf("goroutine panic: %v\n%s", r, string(debug.Stack()))
				if recoverHandler != nil {
					go func() {
						defer func() {
							if p := recover(); p != nil {
								logrus.Errorf("recover goroutine panic: %v\n%s", p, string(debug.Stack()))
							}
						}()
						recoverHandler(r)
					}()
				}
			}
		}()
		handler()
	}()
}

// GetInterfaceString renders INFO values; []byte is taken as text.
func GetInterfaceString(param interface{}) string {
	if b, ok := param.([]byte); ok {
		return string(b)
	}
	return cast.ToString(param)
}

func InArray(in string, array []string) bool {
	for k := range array {
		if in == array[k] {
			return true
		}
	}
	return false
}

var (
	_hostname     string
	_hostnameOnce sync.Once
)

func GetHostname() string {
	_hostnameOnce.Do(func() {
		_hostname, _ = os.Hostname()
	})
	return _hostname
}
