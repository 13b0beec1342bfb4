package masonry_test

import (
	"fmt"

	"github.com/matzehuels/masonry/pkg/masonry"
)

func ExampleLayout() {
	items := []masonry.Item[string]{
		{Data: "hero", Format: &masonry.Format{Size: &masonry.Dimensions{Width: 400, Height: 400}}},
		{Data: "note"},
		{Data: "photo"},
	}

	res := masonry.Layout(items, 2000, 1000, masonry.WithGrid())
	for _, c := range res.Cards {
		fmt.Printf("%-5s x=%-4.0f y=%-3.0f %4.0fx%-4.0f col %d span %d\n",
			c.Item.Data, c.X, c.Y, c.Width, c.Height, c.Grid.Col, c.Grid.ColSpan)
	}
	fmt.Printf("fidelity %.2f\n", res.OrderFidelity)
	// Output:
	// hero  x=0    y=0    400x400  col 1 span 2
	// note  x=432  y=0    400x400  col 3 span 2
	// photo x=864  y=0   1000x800  col 5 span 5
	// fidelity 1.00
}

func ExampleParseRatio() {
	for _, s := range []string{"16:9", "portrait", "square"} {
		r, named, err := masonry.ParseRatio(s)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Printf("%s = %.3f (shortcut: %v)\n", s, r, named)
	}
	// Output:
	// 16:9 = 1.778 (shortcut: false)
	// portrait = 0.500 (shortcut: true)
	// invalid ratio "square": want "W:H" or one of portrait, landscape, banner, tower
}
