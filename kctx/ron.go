/*
 * Karta
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package kctx

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"devt.de/krotik/common/pools"

	"github.com/kartaio/karta/kerr"
)

// bufferPool supplies scratch bytes.Buffer values for RON encoding, the
// way storage/globals.go's BufferPool does for EliasDB's own page writers.
var bufferPool = pools.NewByteBufferPool()

/*
encodeRON renders a Context in the RON (Rusty Object Notation) format
fixed by spec.md 6.2. There is no RON library in the Go ecosystem, so this
is a deliberately narrow hand-rolled encoder/decoder for exactly the
Context/ViewNode shape - see DESIGN.md (kctx) for the justification.
*/
func encodeRON(ctx Context) []byte {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	buf.WriteString("Context(\n")
	fmt.Fprintf(buf, "  focal: %q,\n", ctx.Focal)
	buf.WriteString("  viewnodes: [\n")

	for _, vn := range ctx.ViewNodes {
		fmt.Fprintf(buf, "    ViewNode(uuid: %q, width: %s, height: %s, relX: %s, relY: %s),\n",
			vn.UUID, formatFloat(vn.Width), formatFloat(vn.Height), formatFloat(vn.RelX), formatFloat(vn.RelY))
	}

	buf.WriteString("  ],\n)\n")

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

/*
decodeRON parses the narrow Context(...) / ViewNode(...) grammar produced
by encodeRON. It is intentionally whitespace-tolerant but not a general
RON parser.
*/
func decodeRON(data []byte) (Context, error) {
	s := string(data)

	focal, err := extractQuoted(s, "focal:")
	if err != nil {
		return Context{}, err
	}

	ctx := Context{Focal: focal}

	start := strings.Index(s, "viewnodes:")
	if start < 0 {
		return ctx, nil
	}

	body := s[start:]
	for {
		idx := strings.Index(body, "ViewNode(")
		if idx < 0 {
			break
		}
		body = body[idx+len("ViewNode("):]

		end := strings.Index(body, ")")
		if end < 0 {
			return Context{}, kerr.BadRequest("malformed ViewNode in context file")
		}
		fields := body[:end]
		body = body[end+1:]

		vn, err := parseViewNodeFields(fields)
		if err != nil {
			return Context{}, err
		}
		ctx.ViewNodes = append(ctx.ViewNodes, vn)
	}

	return ctx, nil
}

func parseViewNodeFields(fields string) (ViewNode, error) {
	var vn ViewNode

	for _, part := range strings.Split(fields, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			return ViewNode{}, kerr.BadRequest("malformed ViewNode field: " + part)
		}
		key := strings.TrimSpace(kv[0])
		val := strings.TrimSpace(kv[1])

		switch key {
		case "uuid":
			vn.UUID = strings.Trim(val, `"`)
		case "width":
			vn.Width, _ = strconv.ParseFloat(val, 64)
		case "height":
			vn.Height, _ = strconv.ParseFloat(val, 64)
		case "relX":
			vn.RelX, _ = strconv.ParseFloat(val, 64)
		case "relY":
			vn.RelY, _ = strconv.ParseFloat(val, 64)
		}
	}

	return vn, nil
}

func extractQuoted(s, key string) (string, error) {
	idx := strings.Index(s, key)
	if idx < 0 {
		return "", kerr.BadRequest("missing " + key + " in context file")
	}
	rest := s[idx+len(key):]

	first := strings.Index(rest, `"`)
	if first < 0 {
		return "", kerr.BadRequest("malformed " + key + " in context file")
	}
	rest = rest[first+1:]

	second := strings.Index(rest, `"`)
	if second < 0 {
		return "", kerr.BadRequest("malformed " + key + " in context file")
	}

	return rest[:second], nil
}
