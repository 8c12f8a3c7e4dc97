// Package schema defines the GraphQL schema of the dDoc API.
//
//	type Hello {
//	  text: String!
//	  created_at: String
//	}
//
//	type Query {
//	  hello: Hello
//	}
package schema

import (
	"github.com/ValentinKolb/dDoc/lib/hello"
	"github.com/graphql-go/graphql"
)

// HelloQuery is the query sent by clients to fetch the hello message.
const HelloQuery = `query { hello { text created_at } }`

var helloType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Hello",
	Fields: graphql.Fields{
		"text": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(hello.Message).Text, nil
			},
		},
		"created_at": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				msg := p.Source.(hello.Message)
				if msg.CreatedAt == nil {
					return nil, nil
				}
				return *msg.CreatedAt, nil
			},
		},
	},
})

// New builds the schema. All queries are answered by r.
func New(r *hello.Resolver) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name: "Query",
			Fields: graphql.Fields{
				"hello": &graphql.Field{
					Type: helloType,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return r.FetchHello(p.Context), nil
					},
				},
			},
		}),
	})
}
