// Package clustergram builds clustergram visualization documents from
// labelled numeric matrices.
//
// A Network is loaded from a tab-delimited matrix string, optionally
// clustered, and exported as JSON:
//
//	net := clustergram.New()
//	if err := net.LoadString(data); err != nil {
//	    return err
//	}
//	if err := net.MakeClust(ctx, clustergram.Options{}); err != nil {
//	    return err
//	}
//	out, err := net.ExportNetJSON(clustergram.ViewViz, clustergram.NoIndent)
//
// The first line of the matrix is the header. Leading empty header cells
// after the corner declare row category columns; lines right after the
// header whose first cell is empty carry column categories. Category values
// are usually written as "Title: value".
package clustergram
