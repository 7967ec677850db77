package model

const (
	ThrowableQN        = "java.lang.Throwable"
	ExceptionQN        = "java.lang.Exception"
	ErrorQN            = "java.lang.Error"
	RuntimeExceptionQN = "java.lang.RuntimeException"
)

// builtinExceptions 预置的 JDK 异常类型：QN -> 直接父类型
var builtinExceptions = map[string]string{
	ExceptionQN:        ThrowableQN,
	ErrorQN:            ThrowableQN,
	RuntimeExceptionQN: ExceptionQN,

	"java.lang.InterruptedException":           ExceptionQN,
	"java.lang.CloneNotSupportedException":     ExceptionQN,
	"java.lang.ReflectiveOperationException":   ExceptionQN,
	"java.lang.ClassNotFoundException":         "java.lang.ReflectiveOperationException",
	"java.lang.NoSuchMethodException":          "java.lang.ReflectiveOperationException",
	"java.lang.NoSuchFieldException":           "java.lang.ReflectiveOperationException",
	"java.lang.IllegalAccessException":         "java.lang.ReflectiveOperationException",
	"java.lang.InstantiationException":         "java.lang.ReflectiveOperationException",
	"java.lang.IllegalArgumentException":       RuntimeExceptionQN,
	"java.lang.NumberFormatException":          "java.lang.IllegalArgumentException",
	"java.lang.IllegalStateException":          RuntimeExceptionQN,
	"java.lang.NullPointerException":           RuntimeExceptionQN,
	"java.lang.ArithmeticException":            RuntimeExceptionQN,
	"java.lang.ClassCastException":             RuntimeExceptionQN,
	"java.lang.IndexOutOfBoundsException":      RuntimeExceptionQN,
	"java.lang.ArrayIndexOutOfBoundsException": "java.lang.IndexOutOfBoundsException",
	"java.lang.UnsupportedOperationException":  RuntimeExceptionQN,
	"java.lang.SecurityException":              RuntimeExceptionQN,
	"java.lang.AssertionError":                 ErrorQN,
	"java.lang.LinkageError":                   ErrorQN,
	"java.lang.VirtualMachineError":            ErrorQN,
	"java.lang.OutOfMemoryError":               "java.lang.VirtualMachineError",
	"java.lang.StackOverflowError":             "java.lang.VirtualMachineError",

	"java.io.IOException":                       ExceptionQN,
	"java.io.FileNotFoundException":             "java.io.IOException",
	"java.io.EOFException":                      "java.io.IOException",
	"java.io.UnsupportedEncodingException":      "java.io.IOException",
	"java.io.UncheckedIOException":              RuntimeExceptionQN,
	"java.net.MalformedURLException":            "java.io.IOException",
	"java.net.SocketException":                  "java.io.IOException",
	"java.sql.SQLException":                     ExceptionQN,
	"java.sql.SQLTimeoutException":              "java.sql.SQLException",
	"java.util.NoSuchElementException":          RuntimeExceptionQN,
	"java.util.ConcurrentModificationException": RuntimeExceptionQN,
	"java.util.concurrent.ExecutionException":   ExceptionQN,
	"java.util.concurrent.TimeoutException":     ExceptionQN,
}

var builtinBySimpleName = func() map[string]string {
	m := make(map[string]string, len(builtinExceptions)+1)
	m[simpleName(ThrowableQN)] = ThrowableQN
	for qn := range builtinExceptions {
		m[simpleName(qn)] = qn
	}
	return m
}()

// IsBuiltin 判断 QN 是否为预置的 JDK 异常类型
func IsBuiltin(qn string) bool {
	if qn == ThrowableQN {
		return true
	}
	_, ok := builtinExceptions[qn]
	return ok
}

// BuiltinBySimpleName 按短名称查找预置类型
func BuiltinBySimpleName(name string) (string, bool) {
	qn, ok := builtinBySimpleName[name]
	return qn, ok
}
