// Command kiri-sync manages the git repository behind the notes
// directory.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kirivoice/kiri/internal/config"
	"github.com/kirivoice/kiri/internal/gitsync"
)

func main() {
	var (
		initURL = flag.String("init", "", "initialize the notes repo with this remote URL")
		commit  = flag.Bool("commit", false, "commit pending note changes")
		push    = flag.Bool("push", false, "commit and push to the remote")
		status  = flag.Bool("status", false, "show repository status")
		message = flag.String("m", "", "commit message")
		dirFlag = flag.String("dir", "", "notes directory (default from config)")
	)
	flag.Parse()

	cfg, err := config.Load(config.Path())
	if err != nil {
		fatal("load config: %v", err)
	}

	dir := *dirFlag
	if dir == "" {
		dir = cfg.NotesDir
	}
	dir, err = config.ExpandPath(dir)
	if err != nil {
		fatal("notes dir: %v", err)
	}

	switch {
	case *initURL != "":
		if err := gitsync.Init(dir, *initURL); err != nil {
			fatal("init: %v", err)
		}
		fmt.Printf("Initialized notes repo in %s with remote %s\n", dir, *initURL)

	case *push:
		committed, err := gitsync.Commit(dir, *message)
		if err != nil {
			fatal("commit: %v", err)
		}
		if committed {
			fmt.Println("Committed pending changes.")
		}
		if err := gitsync.Push(dir); err != nil {
			fatal("push: %v", err)
		}
		fmt.Println("Pushed to origin.")

	case *commit:
		committed, err := gitsync.Commit(dir, *message)
		if err != nil {
			fatal("commit: %v", err)
		}
		if committed {
			fmt.Println("Committed pending changes.")
		} else {
			fmt.Println("Nothing to commit.")
		}

	case *status:
		fmt.Println(gitsync.Status(dir))

	default:
		flag.Usage()
		os.Exit(2)
	}
}

func fatal(format string, v ...any) {
	fmt.Fprintf(os.Stderr, "kiri-sync: "+format+"\n", v...)
	os.Exit(1)
}
