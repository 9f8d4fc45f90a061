package main

import (
	"os"
	"reflect"
	"strings"

	musgen "github.com/mus-format/musgen-go/mus"
	genops "github.com/mus-format/musgen-go/options/generate"
	structops "github.com/mus-format/musgen-go/options/struct"
	typeops "github.com/mus-format/musgen-go/options/type"
	"github.com/poiesic/chatsift/core"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	// If we're in the core subpackage, cd up to project root
	if strings.HasSuffix(cwd, "core") {
		if err := os.Chdir(".."); err != nil {
			panic(err)
		}
	}
	g, err := musgen.NewCodeGenerator(
		genops.WithPkgPath("github.com/poiesic/chatsift/core"),
	)
	if err != nil {
		panic(err)
	}

	g.AddDefinedType(reflect.TypeFor[core.ID]())
	g.AddDefinedType(reflect.TypeFor[core.MessageType]())

	// Unix micro timestamps
	opts := typeops.WithTimeUnit(typeops.Micro)
	err = g.AddStruct(reflect.TypeFor[core.Message](),
		structops.WithField(), // Id
		structops.WithField(), // SourceId
		structops.WithField(), // Sender
		structops.WithField(), // Contents
		structops.WithField(), // Channel
		structops.WithField(), // ThreadId
		structops.WithField(), // Type
		structops.WithField(opts), // Timestamp
		structops.WithField(opts), // InsertedAt
		structops.WithField(opts), // UpdatedAt
		structops.WithField(opts), // EditedAt
		structops.WithField(), // Version
		structops.WithField(), // ContentHash
		structops.WithField(), // Reactions
		structops.WithField(), // Mentions
		structops.WithField(), // Attachments
		structops.WithField(), // Keywords
		structops.WithField()) // Vector
	if err != nil {
		panic(err)
	}

	err = g.AddStruct(reflect.TypeFor[core.DedupRecord](),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(opts))
	if err != nil {
		panic(err)
	}

	bs, err := g.Generate()
	if err != nil {
		panic(err)
	}

	err = os.WriteFile("./core/records_mus.gen.go", bs, 0644)
	if err != nil {
		panic(err)
	}
}
