package utils

func ToStringPtr(s string) *string {
	return &s
}

func ToIntPtr(i int) *int {
	return &i
}

func ToFloat64Ptr(f float64) *float64 {
	return &f
}

func ToInt32Ptr(i int32) *int32 {
	return &i
}

func ToBoolPtr(b bool) *bool {
	return &b
}
