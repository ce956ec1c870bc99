package docstore_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/docstore"
)

// Example_basic opens a filesystem store, writes a document and reads it back.
func Example_basic() {
	dir, err := os.MkdirTemp("", "docstore-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	store, err := docstore.Open(dir)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	notes := store.Collection("notes")

	if err := notes.WriteData(ctx, "hello-world", docstore.Document{"author": "Gopher"}); err != nil {
		log.Fatal(err)
	}

	doc, err := notes.ReadData(ctx, "hello-world")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("author: %s\n", doc["author"])
	// Output:
	// author: Gopher
}

// ExampleNewSynchronizer mirrors an in-memory store into another one.
func ExampleNewSynchronizer() {
	ctx := context.Background()

	source, err := docstore.Open("memory://")
	if err != nil {
		log.Fatal(err)
	}
	target, err := docstore.Open("memory://")
	if err != nil {
		log.Fatal(err)
	}

	_ = source.Collection("pets").WriteData(ctx, "1", docstore.Document{"name": "Rex"})
	_ = target.Collection("pets").WriteData(ctx, "2", docstore.Document{"name": "Ghost"})

	report, err := docstore.NewSynchronizer(source, target).Synchronize(ctx, true)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("written=%d deleted=%d\n", report.Written, report.Deleted)
	// Output:
	// written=1 deleted=1
}

// ExampleNewTyped stores and loads a struct.
func ExampleNewTyped() {
	type User struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	store, err := docstore.Open("memory://")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	users := docstore.NewTyped[User](store.Collection("users"))

	if err := users.Write(ctx, "alice", User{Name: "Alice", Age: 30}); err != nil {
		log.Fatal(err)
	}

	alice, err := users.Read(ctx, "alice")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s is %d\n", alice.Data.Name, alice.Data.Age)
	// Output:
	// Alice is 30
}
