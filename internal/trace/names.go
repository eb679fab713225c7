package trace

// readName decodes a zero-terminated object name. At most MaxName-1 bytes are
// kept; what happens to the rest of a longer name depends on the layout's
// NameOverflow policy.
func (d *Decoder) readName(what string) (string, error) {
	off := d.r.off
	limit := d.layout.MaxName - 1
	d.name = d.name[:0]
	for len(d.name) < limit {
		c, err := d.r.ReadByte()
		if err != nil {
			return "", &DecodeError{Category: ErrMalformedHeader, Phase: what, Offset: off, Err: short(err)}
		}
		if c == 0 {
			return string(d.name), nil
		}
		d.name = append(d.name, c)
	}

	// The buffer is full. A name of exactly limit bytes still has its
	// terminator next.
	c, err := d.r.ReadByte()
	if err != nil {
		return "", &DecodeError{Category: ErrMalformedHeader, Phase: what, Offset: off, Err: short(err)}
	}
	name := string(d.name)
	if c == 0 {
		return name, nil
	}

	if d.layout.NameOverflow == NameOverflowStop {
		d.log.Warn("Object name exceeds bound, stream is misaligned", "name", name, "offset", off, "bound", d.layout.MaxName)
		return name, nil
	}

	skipped := 1
	for {
		c, err := d.r.ReadByte()
		if err != nil {
			return "", &DecodeError{Category: ErrMalformedHeader, Phase: what, Offset: off, Err: short(err)}
		}
		if c == 0 {
			break
		}
		skipped++
	}
	d.log.Warn("Truncated object name", "name", name, "offset", off, "skipped", skipped)
	return name, nil
}
