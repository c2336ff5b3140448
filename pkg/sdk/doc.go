// Package esdsl embeds the esdsl mapping and query DSL in a Go program.
//
// Document types are declared in YAML, the same format the esdsl service reads:
//
//	client, _ := esdsl.New(esdsl.WithSchemaYAML([]byte(`
//	schemas:
//	  - name: MyDoc
//	    fields:
//	      title: {type: string, index: not_analyzed}
//	      inner:
//	        properties:
//	          old_field: string
//	`)))
//	m, _ := client.Mapping("MyDoc")
//	doc, _ := client.NewDocument("MyDoc", map[string]any{"title": "t"})
//	doc.Object("inner").Set("old_field", "x")
//
// Queries arrive in wire form and combine with the query algebra:
//
//	a, _ := client.CompileJSON(ctx, []byte(`{"match": {"title": "python"}}`))
//	q, _ := client.Combine(ctx, esdsl.OpNot, a.ToDict(), nil)
package esdsl
