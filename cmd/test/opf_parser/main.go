// Probe for the package document stages of the extraction pipeline.
//
// Usage:
//
//	go run ./cmd/test/opf_parser/main.go <epub-file-path>
//
// This program runs each stage separately and prints its output:
// - container.xml -> package document path
// - metadata scan -> record and <meta name="cover"> id
// - manifest scan -> cover href, media type and matching rule
// - path resolution -> archive member of the cover
package main

import (
	"fmt"
	"os"

	"github.com/yuanying/epubmeta/internal/epub"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <epub-file-path>\n", os.Args[0])
		os.Exit(1)
	}

	if err := probe(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func probe(epubPath string) error {
	a, err := epub.OpenFile(epubPath)
	if err != nil {
		return err
	}
	defer a.Close()

	containerData, err := a.ReadFile("META-INF/container.xml")
	if err != nil {
		return err
	}
	opfPath, err := epub.ParseContainer(containerData)
	if err != nil {
		return err
	}
	fmt.Printf("OPF Path:    %s\n", opfPath)

	opfData, err := a.ReadFile(opfPath)
	if err != nil {
		return err
	}

	md, coverID, err := epub.ExtractMetadata(opfData)
	if err != nil {
		return err
	}

	fmt.Println("--- Metadata ---")
	fmt.Printf("Title:       %s\n", md.Title)
	fmt.Printf("Language:    %s\n", md.Language)
	for i, author := range md.Authors {
		fmt.Printf("Author %d:    %s\n", i+1, author)
	}
	for _, id := range md.Identifiers {
		fmt.Printf("Identifier:  %s = %s\n", id.Scheme, id.Value)
	}
	if md.Series != "" {
		fmt.Printf("Series:      %s [%s]\n", md.Series, md.SeriesIndex)
	}
	fmt.Printf("Cover ID:    %q\n", coverID)

	fmt.Println("\n--- Cover ---")
	ref, ok, err := epub.ResolveCover(opfData, coverID)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cover Image: (not found)")
		return nil
	}

	member := epub.ResolveMemberPath(opfPath, ref.Href)
	fmt.Printf("Href:        %s\n", ref.Href)
	fmt.Printf("Media Type:  %s\n", ref.MediaType)
	fmt.Printf("Rule:        %s\n", ref.Method)
	fmt.Printf("Member:      %s\n", member)

	if data, err := a.ReadFile(member); err != nil {
		fmt.Printf("Bytes:       unreadable (%v)\n", err)
	} else {
		fmt.Printf("Bytes:       %d\n", len(data))
	}
	return nil
}
