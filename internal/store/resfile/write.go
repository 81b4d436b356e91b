package resfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"resextract/internal/store"
)

// Write saves a fully loaded archive as a YAML result file, the inverse of
// Load. Items whose values were filtered out are written header-only.
func Write(path string, rd *store.ResultData) error {
	doc := document{Version: 1, Times: rd.Times}

	for _, n := range rd.Nodes {
		doc.Nodes = append(doc.Nodes, locationDoc{ID: n.ID, Items: itemDocs(n.Items, rd)})
	}
	for _, r := range rd.Reaches {
		rdoc := reachDoc{Name: r.Name, Items: itemDocs(r.Items, rd)}
		for _, gp := range r.GridPoints {
			rdoc.GridPoints = append(rdoc.GridPoints, gp.Chainage)
		}
		doc.Reaches = append(doc.Reaches, rdoc)
	}
	for _, c := range rd.Catchments {
		doc.Catchments = append(doc.Catchments, locationDoc{ID: c.ID, Items: itemDocs(c.Items, rd)})
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("writing result file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing result file: %w", err)
	}
	return nil
}

func itemDocs(items []*store.DataItem, rd *store.ResultData) []itemDoc {
	docs := make([]itemDoc, 0, len(items))
	for _, item := range items {
		doc := itemDoc{
			Quantity: item.Quantity.ID,
			Unit:     item.Quantity.Unit,
			Index:    item.IndexList,
		}
		if item.HasValues() {
			doc.Values = make([][]float64, len(rd.Times))
			for t := range rd.Times {
				row := make([]float64, item.Elements())
				for e := range row {
					row[e] = item.Value(t, e)
				}
				doc.Values[t] = row
			}
		}
		docs = append(docs, doc)
	}
	return docs
}
