package osmpbf_test

import (
	"bytes"
	"context"
	"fmt"

	"github.com/paulmach/osm"
	"github.com/osmpbfio/pbfwriter"
)

func Example_encoder() {
	var buf bytes.Buffer

	enc, err := osmpbf.NewEncoder(&buf, osmpbf.Header{
		Generator: "osmpbfio-example",
	}, osmpbf.WithCompression(osmpbf.CompressionNone))
	if err != nil {
		panic(err)
	}

	if err := enc.Start(context.Background()); err != nil {
		panic(err)
	}

	nodes := []*osm.Node{
		{ID: osm.NodeID(1), Lat: 51.5074, Lon: -0.1278},
		{ID: osm.NodeID(2), Lat: 51.5075, Lon: -0.1279},
	}
	for _, n := range nodes {
		if err := enc.WriteNode(n); err != nil {
			panic(err)
		}
	}

	way := &osm.Way{
		ID: osm.WayID(1),
		Nodes: osm.WayNodes{
			{ID: osm.NodeID(1)},
			{ID: osm.NodeID(2)},
		},
	}
	if err := enc.WriteWay(way); err != nil {
		panic(err)
	}

	if err := enc.Close(); err != nil {
		panic(err)
	}

	fmt.Println(buf.Len() > 0)
	// Output: true
}
