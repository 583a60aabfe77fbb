// Probe for the archive accessor and container resolver.
//
// Usage:
//
//	go run ./cmd/test/epub_reader/main.go <epub-file> (<member> ...)
//
// This program:
// - Opens the EPUB file (ZIP archive)
// - Lists all members in archive order
// - Resolves the package document path from META-INF/container.xml
// - Reads any additional members named on the command line
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/yuanying/epubmeta/internal/epub"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/test/epub_reader/main.go <epub-file> (<member> ...)")
		os.Exit(1)
	}

	epubPath := os.Args[1]
	members := os.Args[2:]

	fmt.Printf("Opening EPUB file: %s\n", epubPath)
	a, err := epub.OpenFile(epubPath)
	if err != nil {
		log.Fatalf("Failed to open EPUB: %v", err)
	}
	defer a.Close()

	names := a.Names()
	fmt.Printf("Total files: %d\n", len(names))
	fmt.Println("\nFile list:")
	for _, name := range names {
		fmt.Printf("  - %s\n", name)
	}

	fmt.Println("\nReading META-INF/container.xml...")
	containerData, err := a.ReadFile("META-INF/container.xml")
	if err != nil {
		log.Fatalf("Failed to read container.xml: %v", err)
	}
	opfPath, err := epub.ParseContainer(containerData)
	if err != nil {
		log.Fatalf("Failed to resolve package document: %v", err)
	}
	fmt.Printf("OPF Path: %s\n", opfPath)

	for _, name := range members {
		fmt.Printf("\nReading member: %s\n", name)
		content, err := a.ReadFile(name)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", name, err)
		}
		fmt.Printf("%s (%d bytes)\n%s\n", name, len(content), content)
	}
}
