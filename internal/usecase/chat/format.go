package chat

import (
	"fmt"
	"strings"

	"github.com/pustaka-digital/pustaka/internal/domain/book"
	domchat "github.com/pustaka-digital/pustaka/internal/domain/chat"
)

// maxListed is the number of search results spelled out in a reply.
const maxListed = 5

func formatSearchResults(term string, books []book.Book) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Saya menemukan %d buku terkait \"%s\":\n", len(books), term)
	for i, b := range books {
		if i == maxListed {
			fmt.Fprintf(&sb, "\n...dan %d buku lainnya. Gunakan kata kunci yang lebih spesifik untuk mempersempit hasil.", len(books)-maxListed)
			break
		}
		sb.WriteString("\n")
		sb.WriteString(formatBook(i+1, b))
	}
	return sb.String()
}

func formatBook(n int, b book.Book) string {
	line := fmt.Sprintf("%d. %s", n, b.Title())
	if b.Author() != "" {
		line += " - " + b.Author()
	}
	if b.PublicationYear() != "" {
		line += " (" + b.PublicationYear() + ")"
	}
	if b.Publisher() != "" {
		line += "\n   Penerbit: " + b.Publisher()
	}
	if b.HasCallNumber() {
		line += "\n   Nomor panggil: " + b.CallNumber()
	}
	return line
}

func formatNotFound(term string) string {
	return fmt.Sprintf("Maaf, saya tidak menemukan buku terkait \"%s\" di katalog kami. "+
		"Coba gunakan kata kunci lain, misalnya judul, nama pengarang, atau penerbit.", term)
}

// describeBooks renders catalog records as prompt context.
func describeBooks(books []book.Book) string {
	var sb strings.Builder
	for _, b := range books {
		fmt.Fprintf(&sb, "- \"%s\"", b.Title())
		if b.Author() != "" {
			fmt.Fprintf(&sb, " oleh %s", b.Author())
		}
		if b.PublicationYear() != "" {
			fmt.Fprintf(&sb, " (%s)", b.PublicationYear())
		}
		if b.Publisher() != "" {
			fmt.Fprintf(&sb, ", %s", b.Publisher())
		}
		if b.HasPhysicalDescription() {
			fmt.Fprintf(&sb, "; %s", b.PhysicalDescription())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatHistory(turns []domchat.Turn) string {
	var sb strings.Builder
	for _, t := range turns {
		who := "Pengunjung"
		if t.Sender == "bot" {
			who = "Asisten"
		}
		fmt.Fprintf(&sb, "%s: %s\n", who, strings.TrimSpace(t.Text))
	}
	return sb.String()
}
