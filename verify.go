package objc

// Verify finds the method with which instances of cls respond to sel.
func (rt *Runtime) Verify(cls Class, sel Sel) (Method, error) {
	m := rt.b.InstanceMethod(cls, sel)
	if m == 0 {
		return 0, &MethodNotFoundError{Class: rt.b.ClassName(cls), Sel: rt.b.SelName(sel)}
	}
	return m, nil
}

// VerifyReturn checks that a method's declared return type matches want. An
// empty want matches any return type.
func (rt *Runtime) VerifyReturn(m Method, want Encoding) error {
	if want == "" {
		return nil
	}
	declared := rt.b.MethodReturnType(m)
	if !declared.Equal(want) {
		return &MismatchedReturnError{Method: rt.b.SelName(rt.b.MethodName(m)), Declared: declared, Actual: want}
	}
	return nil
}

// VerifyArguments checks that a method accepts exactly len(args) arguments
// after the receiver and selector, and that each declared argument type
// matches the corresponding encoding in args. Empty encodings in args match
// any declared type.
func (rt *Runtime) VerifyArguments(m Method, args []Encoding) error {
	n := rt.b.MethodNumberOfArguments(m)
	if len(args)+2 != n {
		return &MismatchedArgumentsCountError{Method: rt.b.SelName(rt.b.MethodName(m)), Declared: n - 2, Actual: len(args)}
	}
	for i, actual := range args {
		if actual == "" {
			continue
		}
		declared, ok := rt.b.MethodArgumentType(m, i+2)
		if !ok {
			continue
		}
		if !declared.Equal(actual) {
			return &MismatchedArgumentError{Method: rt.b.SelName(rt.b.MethodName(m)), Index: i, Declared: declared, Actual: actual}
		}
	}
	return nil
}

// verifyMessage performs all verification of a message to instances of cls.
func (rt *Runtime) verifyMessage(cls Class, sel Sel, ret Encoding, args []Encoding) error {
	m, err := rt.Verify(cls, sel)
	if err != nil {
		return err
	}
	if err := rt.VerifyReturn(m, ret); err != nil {
		return err
	}
	return rt.VerifyArguments(m, args)
}
