// Package html2latex converts HTML fragments to LaTeX source.
//
// # Quick Start
//
// Convert a single fragment with the default configuration:
//
//	out, err := html2latex.Convert("there is a <strong>bold text</strong> tag")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(out) // there is a \textbf{bold text} tag
//
// # Supported Markup
//
// Only a small, fixed set of tags is translated:
//
//	<strong>, <b>   ->  \textbf{...}
//	<u>             ->  \underline{...}
//	<i>, <em>       ->  \textit{...}
//	<ul>            ->  \begin{itemize} ... \end{itemize}
//	<ol>            ->  \begin{enumerate} ... \end{enumerate}
//	<li>            ->  \item, indented with one tab per list level
//
// Any other tag is transparent: the tag is dropped and its content is kept.
// Text is escaped for LaTeX (# $ % ^ _ { } ~ \); '&' is left unchanged.
// Whitespace-only text between two tags is dropped unless
// WithKeepInterTagSpace is set. Transparent tags get no separator of their
// own, so block-level markup merges its text by default:
//
//	<p>a</p>\n<p>b</p>   ->  ab
//	a<span> </span>b     ->  ab
//
// Set WithKeepInterTagSpace when fragments rely on whitespace between blocks.
//
// # Errors
//
// Conversion is all-or-nothing. Malformed markup (an unterminated '<', a
// closing tag that does not match the innermost open tag, tags left open at
// the end) returns an error matching ErrMalformedMarkup; use errors.As with
// *MarkupError for the kind, tag and byte offset.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := html2latex.NewConverter(
//	    html2latex.WithDecodeEntities(true),
//	    html2latex.WithRules(html2latex.Rule{
//	        Tag: "sup", Kind: html2latex.KindInline,
//	        Open: `\textsuperscript{`, Close: "}",
//	    }),
//	)
//
// # Parallel Processing
//
// A Converter is safe for concurrent use. ConvertAll fans a batch out to a
// bounded set of workers and returns results in input order:
//
//	results := conv.ConvertAll(ctx, fragments)
//	bodies := make([]string, 0, len(results))
//	for _, r := range results {
//	    if r.Err != nil {
//	        log.Printf("skipping: %v", r.Err)
//	        continue
//	    }
//	    bodies = append(bodies, r.LaTeX)
//	}
//	html2latex.DefaultDocument().Write(os.Stdout, bodies)
//
// # Markdown
//
// ConvertMarkdown renders GitHub Flavored Markdown to HTML with goldmark and
// converts the result through the same pipeline.
package html2latex
