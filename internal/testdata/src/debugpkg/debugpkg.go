package debugpkg

var counter int

func traced() {
	counter = 1
	_ = counter
}

func untraced() {
	counter = 2
	_ = counter
}
