package main

import (
	"embed"
	"io/fs"
	"os"

	"mytodos/internal/cli"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

func main() {
	templates, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	if err := cli.Execute(cli.Assets{Templates: templates, Static: static}); err != nil {
		os.Exit(1)
	}
}
