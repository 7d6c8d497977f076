package main

import (
	"os"

	"github.com/michela/coach/coachservice"
)

func main() {
	if err := coachservice.Run(); err != nil {
		os.Exit(1)
	}
}
