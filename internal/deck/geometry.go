/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package deck

// Rect is where the current clip is drawn inside the viewport.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Fit scales a clip into the viewport keeping its aspect ratio. The fitting
// side fills the viewport and the other side is centered. A clip without a
// usable size gets the whole viewport.
func Fit(viewW, viewH, clipW, clipH int) Rect {
	if clipW <= 0 || clipH <= 0 {
		return Rect{Width: viewW, Height: viewH}
	}
	cw, ch := float64(clipW), float64(clipH)
	wr := float64(viewW) / cw
	hr := float64(viewH) / ch

	if hr < wr {
		h := float64(viewH)
		w := h * (cw / ch)
		return Rect{X: (viewW - int(w)) / 2, Y: 0, Width: int(w), Height: int(h)}
	}
	w := float64(viewW)
	h := w * (ch / cw)
	return Rect{X: 0, Y: (viewH - int(h)) / 2, Width: int(w), Height: int(h)}
}
