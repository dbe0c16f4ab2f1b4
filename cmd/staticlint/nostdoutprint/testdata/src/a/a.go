package a

import (
	"fmt"
	"io"
)

func render(w io.Writer, name string) {
	fmt.Println(name)          // want "use an io.Writer instead of fmt.Println"
	fmt.Printf("%s\n", name)   // want "use an io.Writer instead of fmt.Printf"
	fmt.Print(name)            // want "use an io.Writer instead of fmt.Print"
	println(name)              // want "use an io.Writer instead of println"
	fmt.Fprintln(w, name)
	_ = fmt.Sprintf("%s", name)
}
