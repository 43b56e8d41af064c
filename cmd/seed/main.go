package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"bookstore/internal/book"
)

// sampleBooks mirrors the demo data set used in manual testing.
var sampleBooks = []book.AddParams{
	{Title: "To Kill a Mockingbird", Author: "Harper Lee", Year: intPtr(1960), ISBN: strPtr("978-0061120084"), Genre: strPtr("Fiction")},
	{Title: "1984", Author: "George Orwell", Year: intPtr(1949), ISBN: strPtr("978-0451524935"), Genre: strPtr("Dystopian")},
	{Title: "Pride and Prejudice", Author: "Jane Austen", Year: intPtr(1813), ISBN: strPtr("978-0141439518"), Genre: strPtr("Romance")},
	{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Year: intPtr(1925), ISBN: strPtr("978-0743273565"), Genre: strPtr("Fiction")},
	{Title: "One Hundred Years of Solitude", Author: "Gabriel García Márquez", Year: intPtr(1967), ISBN: strPtr("978-0060883287"), Genre: strPtr("Magical Realism")},
	{Title: "The Catcher in the Rye", Author: "J.D. Salinger", Year: intPtr(1951), ISBN: strPtr("978-0316769174"), Genre: strPtr("Fiction")},
	{Title: "The Hobbit", Author: "J.R.R. Tolkien", Year: intPtr(1937), ISBN: strPtr("978-0547928227"), Genre: strPtr("Fantasy")},
	{Title: "Harry Potter and the Philosopher's Stone", Author: "J.K. Rowling", Year: intPtr(1997), ISBN: strPtr("978-0439708180"), Genre: strPtr("Fantasy")},
	{Title: "The Lord of the Rings", Author: "J.R.R. Tolkien", Year: intPtr(1954), ISBN: strPtr("978-0544003415"), Genre: strPtr("Fantasy")},
	{Title: "Animal Farm", Author: "George Orwell", Year: intPtr(1945), ISBN: strPtr("978-0451526342"), Genre: strPtr("Political Satire")},
}

func main() {
	dbPath := flag.String("db", "books.db", "Path to the SQLite database file")
	flag.Parse()

	repo, err := book.OpenSQLite(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open book store: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	inserted := 0
	for _, p := range sampleBooks {
		if _, err := repo.Add(ctx, p); err != nil {
			if errors.Is(err, book.ErrDuplicateISBN) {
				log.Printf("Skipping %q: already seeded", p.Title)
				continue
			}
			log.Fatalf("Failed to insert %q: %v", p.Title, err)
		}
		inserted++
	}

	log.Printf("Seeded %d of %d sample books into %s", inserted, len(sampleBooks), *dbPath)
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }
