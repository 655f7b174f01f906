package chi

// landingPage is the minimal in-browser client for the search endpoint.
const landingPage = `<!DOCTYPE html>
<html>
<head>
<title>ThreadSage</title>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; background-color: #f8f9fa;">
<h1 style="color: #2c3e50;">ThreadSage</h1>
<p style="color: #6c757d; font-size: 16px;">Ask any question and get answers based on Reddit discussions.</p>
<form onsubmit="searchQuestion(event)" style="margin: 30px 0;">
<div style="margin-bottom: 15px;">
<input type="text" id="query" placeholder="Ask anything..."
style="width: 100%; padding: 12px; font-size: 16px; border: 2px solid #dee2e6; border-radius: 6px; box-sizing: border-box;"/>
</div>
<div style="display: flex; gap: 10px; align-items: center;">
<input type="text" id="subreddit" placeholder="Optional: subreddit (e.g., programming)"
style="flex: 1; padding: 12px; font-size: 16px; border: 2px solid #dee2e6; border-radius: 6px;"/>
<button type="submit" style="padding: 12px 24px; font-size: 16px; background-color: #007bff; color: white; border: none; border-radius: 6px; cursor: pointer;">Search</button>
</div>
</form>
<div id="result" style="margin-top: 30px; padding: 20px; background: white; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); display: none;"></div>
<script>
function searchQuestion(e) {
  e.preventDefault();
  const query = document.getElementById('query').value.trim();
  const subreddit = document.getElementById('subreddit').value.trim();
  if (!query) {
    alert('Please enter a question!');
    return;
  }
  const resultDiv = document.getElementById('result');
  resultDiv.style.display = 'block';
  resultDiv.innerHTML = '<p style="color: #007bff;">Searching Reddit...</p>';
  let url = '/api/search?q=' + encodeURIComponent(query);
  if (subreddit) {
    url += '&subreddit=' + encodeURIComponent(subreddit);
  }
  fetch(url)
    .then(r => r.json())
    .then(data => {
      if (data.error) {
        resultDiv.innerHTML = '<p style="color: red;">Error: ' + data.error + '</p>';
      } else {
        const postsInfo = data.postsFound > 0 ? ' (Found ' + data.postsFound + ' relevant posts)' : '';
        resultDiv.innerHTML = '<h3 style="color: #2c3e50;">Question: ' + data.query + '</h3>' +
                              '<div style="padding: 15px; background-color: #f8f9fa; border-left: 4px solid #007bff; margin: 15px 0;">' +
                              data.answer.replace(/\n/g, '<br>') + '</div>' +
                              '<small style="color: #6c757d;">Processed in ' + data.processingTimeMs + 'ms' + postsInfo + '</small>';
      }
    })
    .catch(err => {
      console.error('Fetch error:', err);
      resultDiv.innerHTML = '<p style="color: red;">Error: Unable to connect to the server. Please try again.</p>';
    });
}
</script>
</body>
</html>
`
