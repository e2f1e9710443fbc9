package main

import (
	"go.uber.org/fx"

	"github.com/officefood/officefood/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
