// Package pustaka embeds the library chat and metadata generation services
// in a Go program without going through the HTTP API. It talks to the same
// Redis or Valkey store as the API server, so catalog imports and generated
// metadata are visible to both.
//
//	client, _ := pustaka.New(ctx,
//	    pustaka.WithRedis("localhost:6379", ""),
//	    pustaka.WithCompletion("openai", apiKey, "", "gpt-4o-mini"),
//	    pustaka.WithLibrary("Perpustakaan Kota", "+62 812-0000-0000", ""),
//	)
//	defer client.Close()
//
//	_ = client.ImportBooks(ctx, books)
//	reply := client.Chat(ctx, "cari buku tentang Batavia")
//	sum, _ := client.GeneratePlaylists(ctx, pustaka.GenerateRequest{Mode: pustaka.ModeMissing})
//
// Without WithCompletion every model-backed path takes its fallback: chat
// answers from rules, descriptions get the placeholder text and playlists get
// keyword metadata.
package pustaka
