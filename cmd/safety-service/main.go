package main

import (
	"os"

	"github.com/petalsafe/petalsafe-backend/safetyservice"
)

func main() {
	if err := safetyservice.Run(); err != nil {
		os.Exit(1)
	}
}
