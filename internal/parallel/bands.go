package parallel

import "image"

// Bands splits r into at most n horizontal bands of at least minRows rows.
// The bands cover r exactly and are ordered top to bottom.
func Bands(r image.Rectangle, n, minRows int) []image.Rectangle {
	if r.Empty() {
		return nil
	}
	minRows = max(minRows, 1)
	n = max(1, min(n, r.Dy()/minRows))

	bands := make([]image.Rectangle, 0, n)
	rows, extra := r.Dy()/n, r.Dy()%n
	y := r.Min.Y
	for i := 0; i < n; i++ {
		h := rows
		if i < extra {
			h++
		}
		bands = append(bands, image.Rect(r.Min.X, y, r.Max.X, y+h))
		y += h
	}
	return bands
}

// ForEachBand calls fn for every band of r, one band per worker at most,
// and waits for all calls to return. fn must only write inside its band.
func (p *WorkerPool) ForEachBand(r image.Rectangle, minRows int, fn func(band image.Rectangle)) {
	bands := Bands(r, p.workers, minRows)
	if len(bands) <= 1 {
		for _, b := range bands {
			fn(b)
		}
		return
	}
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b) }
	}
	p.ExecuteAll(work)
}
