package main

import (
	"sync"

	"github.com/zenbild/zenbild-web/internal/logging"
)

var once sync.Once

func init() {
	once.Do(logging.Setup)
}
