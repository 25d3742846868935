package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/wanttogo/internal/admin"
)

func main() {
	if err := admin.NewRootCommand(nil).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
