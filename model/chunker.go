package model

// ChunkText splits text into overlapping fixed-size windows of at most
// chunkSize runes. Consecutive windows share exactly overlap runes, except
// the final window which may be shorter. An overlap that would prevent
// forward progress is clamped to a quarter of the chunk size.
func ChunkText(text string, chunkSize, overlap int) []string {
	if text == "" || chunkSize <= 0 {
		return nil
	}

	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	if overlap < 0 {
		overlap = 0
	}

	runes := []rune(text)
	n := len(runes)

	var out []string
	start := 0
	for start < n {
		end := start + chunkSize
		if end > n {
			end = n
		}
		out = append(out, string(runes[start:end]))
		if end == n {
			break
		}
		start = end - overlap
		if start < 0 {
			start = 0
		}
	}
	return out
}
