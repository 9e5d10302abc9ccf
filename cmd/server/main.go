package main

import (
	"github.com/sirupsen/logrus"

	"blognest/internal/transport/http"
)

func main() {
	if err := http.Run(); err != nil {
		logrus.Fatalf("Server failed: %v", err)
	}
}
