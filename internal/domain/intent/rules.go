package intent

import "fmt"

// Rule names, also used as metric labels.
const (
	RuleGreeting   = "greeting"
	RuleThanks     = "thanks"
	RuleHours      = "hours"
	RuleLocation   = "location"
	RuleMembership = "membership"
	RuleBorrowing  = "borrowing"
	RuleReturns    = "returns"
	RuleCollection = "collection"
	RuleServices   = "services"
	RuleContact    = "contact"
)

// DefaultRules builds the library's rule table. It is built once at start-up.
func DefaultRules(libraryName, whatsapp string) []Rule {
	contact := "melalui WhatsApp pengelola"
	if whatsapp != "" {
		contact = "melalui WhatsApp " + whatsapp
	}

	return []Rule{
		{
			Name: RuleGreeting,
			Patterns: []string{
				"halo", "hallo", "hai", "hello", "selamat pagi", "selamat siang",
				"selamat sore", "selamat malam", "assalamualaikum", "permisi",
			},
			Response: fmt.Sprintf("Halo! Selamat datang di %s. Ada yang bisa saya bantu? "+
				"Anda bisa bertanya tentang jam buka, keanggotaan, atau mencari buku.", libraryName),
			Confidence: 0.9,
		},
		{
			Name:       RuleThanks,
			Patterns:   []string{"terima kasih", "makasih", "thank you", "thanks", "trims"},
			Response:   "Sama-sama! Senang bisa membantu. Silakan bertanya lagi kapan saja.",
			Confidence: 0.9,
		},
		{
			Name: RuleHours,
			Patterns: []string{
				"jam buka", "jam operasional", "jam berapa", "buka jam", "tutup jam",
				"hari libur", "buka hari", "kapan buka", "opening hours",
			},
			Response: fmt.Sprintf("%s buka Senin sampai Jumat pukul 08.00-16.00 dan Sabtu pukul 09.00-13.00. "+
				"Minggu dan hari libur nasional tutup.", libraryName),
			Confidence: 0.85,
		},
		{
			Name:       RuleLocation,
			Patterns:   []string{"alamat", "lokasi", "dimana", "di mana", "letak", "rute", "where is"},
			Response:   fmt.Sprintf("Alamat dan peta menuju %s tersedia di halaman Profil. Anda juga bisa menghubungi kami %s.", libraryName, contact),
			Confidence: 0.85,
		},
		{
			Name: RuleMembership,
			Patterns: []string{
				"anggota", "keanggotaan", "member", "mendaftar", "pendaftaran",
				"kartu perpustakaan", "daftar jadi",
			},
			Response: "Untuk menjadi anggota, datang langsung dengan membawa KTP atau kartu pelajar " +
				"dan pas foto. Pendaftaran gratis dan kartu langsung dapat digunakan.",
			Confidence: 0.85,
		},
		{
			Name:       RuleBorrowing,
			Patterns:   []string{"pinjam", "meminjam", "peminjaman", "borrow"},
			Response:   "Anggota dapat meminjam hingga 3 buku selama 7 hari. Koleksi referensi dan buku langka hanya dapat dibaca di tempat.",
			Confidence: 0.85,
		},
		{
			Name:       RuleReturns,
			Patterns:   []string{"kembalikan", "pengembalian", "denda", "terlambat", "perpanjang"},
			Response:   "Buku dikembalikan di meja layanan. Perpanjangan dapat dilakukan satu kali selama tidak ada antrean. Keterlambatan dikenakan denda per hari per buku.",
			Confidence: 0.85,
		},
		{
			Name:       RuleCollection,
			Patterns:   []string{"koleksi", "jenis buku", "buku langka", "arsip", "manuskrip", "majalah"},
			Response:   fmt.Sprintf("%s memiliki koleksi sejarah, budaya, sastra, dan referensi. Ketik \"cari buku <topik>\" untuk menelusuri katalog.", libraryName),
			Confidence: 0.8,
		},
		{
			Name:       RuleServices,
			Patterns:   []string{"layanan", "fasilitas", "wifi", "ruang baca", "fotokopi", "program"},
			Response:   "Kami menyediakan ruang baca, akses wifi, layanan referensi, fotokopi, dan program literasi berkala.",
			Confidence: 0.8,
		},
		{
			Name:       RuleContact,
			Patterns:   []string{"kontak", "hubungi", "whatsapp", "telepon", "nomor wa", "email"},
			Response:   fmt.Sprintf("Silakan hubungi kami %s.", contact),
			Confidence: 0.8,
		},
	}
}
