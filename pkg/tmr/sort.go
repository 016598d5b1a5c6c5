package tmr

// SortFrames orders frames for display: modality frames first, then
// events, then the rejected-words frame. Each bucket keeps the input's
// relative order. A frame whose is-in-subtree is anything but EVENT is a
// modality frame; the rejected-words frame is never an event. The input
// slice is not modified.
func SortFrames(frames []*Frame) []*Frame {
	sorted := make([]*Frame, 0, len(frames))
	sorted = append(sorted, filterFrames(frames, isModality)...)
	sorted = append(sorted, filterFrames(frames, isEvent)...)
	sorted = append(sorted, filterFrames(frames, (*Frame).IsRejected)...)
	return sorted
}

func isEvent(f *Frame) bool {
	return f.IsEvent() && !f.IsRejected()
}

func isModality(f *Frame) bool {
	return !f.IsEvent() && !f.IsRejected()
}

func filterFrames(frames []*Frame, keep func(*Frame) bool) []*Frame {
	var out []*Frame
	for _, f := range frames {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
